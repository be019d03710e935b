// Package enrichlayer provides a client for the EnrichLayer B2B company and
// person enrichment API.
package enrichlayer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.enrichlayer.com/v1"

// Client defines the EnrichLayer API operations used by the pipeline.
type Client interface {
	// EnrichCompany looks up a company by name and, when known, domain.
	EnrichCompany(ctx context.Context, req CompanyRequest) (*Company, error)
	// VerifyPerson cross-checks a contact against EnrichLayer's person graph.
	VerifyPerson(ctx context.Context, req PersonRequest) (*PersonMatch, error)
}

// CompanyRequest is the request body for POST /company/enrich.
type CompanyRequest struct {
	CompanyName string `json:"company_name"`
	Domain      string `json:"domain,omitempty"`
	EnrichLevel string `json:"enrich_level,omitempty"`
}

// Company is an EnrichLayer company record.
type Company struct {
	Domain               string `json:"domain"`
	HeadquartersLocation string `json:"headquarters_location"`
	AnnualRevenue        string `json:"annual_revenue"`
	EmployeeCount        string `json:"employee_count"`
	LinkedInURL          string `json:"linkedin_url"`
}

// PersonRequest is the request body for POST /person/verify.
type PersonRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	CompanyDomain string `json:"company_domain,omitempty"`
}

// PersonMatch is the verification outcome for a contact.
type PersonMatch struct {
	MatchScore float64 `json:"match_score"`
	Source     string  `json:"source"`
}

// companyResponse wraps the company enrich payload.
type companyResponse struct {
	Company *Company `json:"company"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets a per-second rate limit for EnrichLayer API calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an EnrichLayer API client, throttled to 2 req/s by default.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		limiter: rate.NewLimiter(2, 1),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) post(ctx context.Context, path string, payload, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "enrichlayer: rate limit")
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "enrichlayer: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "enrichlayer: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "enrichlayer: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "enrichlayer: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("enrichlayer: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "enrichlayer: unmarshal response")
	}

	return nil
}

func (c *httpClient) EnrichCompany(ctx context.Context, req CompanyRequest) (*Company, error) {
	if req.EnrichLevel == "" {
		req.EnrichLevel = "full"
	}
	var result companyResponse
	if err := c.post(ctx, "/company/enrich", req, &result); err != nil {
		return nil, err
	}
	return result.Company, nil
}

func (c *httpClient) VerifyPerson(ctx context.Context, req PersonRequest) (*PersonMatch, error) {
	var result PersonMatch
	if err := c.post(ctx, "/person/verify", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
