// Package apollo provides a client for the Apollo.io organization and people
// enrichment API.
package apollo

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

const defaultBaseURL = "https://api.apollo.io/v1"

// Client defines the Apollo API operations used by the pipeline.
type Client interface {
	// EnrichOrganization looks up an organization by exact domain.
	EnrichOrganization(ctx context.Context, domain string) (*Organization, error)
	// SearchOrganizations searches organizations by name.
	SearchOrganizations(ctx context.Context, name string) ([]Organization, error)
	// SearchPeople finds people at an organization, filtered by domain.
	SearchPeople(ctx context.Context, req PeopleSearchRequest) ([]Person, error)
}

// Organization is an Apollo organization record.
type Organization struct {
	Name          string `json:"name"`
	Domain        string `json:"domain"`
	WebsiteURL    string `json:"website_url"`
	Location      string `json:"location"`
	AnnualRevenue string `json:"annual_revenue_printed"`
	EmployeeCount int    `json:"estimated_num_employees"`
	LinkedInURL   string `json:"linkedin_url"`
}

// PeopleSearchRequest filters a people search.
type PeopleSearchRequest struct {
	OrganizationDomain string   `json:"q_organization_domains,omitempty"`
	Titles             []string `json:"person_titles,omitempty"`
	PerPage            int      `json:"per_page,omitempty"`
}

// Person is an Apollo person record.
type Person struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Title            string `json:"title"`
	Email            string `json:"email"`
	EmailStatus      string `json:"email_status"`
	LinkedInURL      string `json:"linkedin_url"`
	EmploymentStatus string `json:"employment_status"` // "current" or "past"
}

// enrichResponse wraps the single-organization enrich payload.
type enrichResponse struct {
	Organization *Organization `json:"organization"`
}

// searchResponse wraps the organization search payload.
type searchResponse struct {
	Organizations []Organization `json:"organizations"`
}

// peopleResponse wraps the people search payload.
type peopleResponse struct {
	People []Person `json:"people"`
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

// WithRateLimit sets a per-second rate limit for Apollo API calls.
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

// NewClient creates an Apollo API client. Calls are throttled to 2 req/s by
// default to stay under Apollo's plan limits.
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

// post sends a JSON body to path and decodes the response into out.
func (c *httpClient) post(ctx context.Context, path string, payload, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "apollo: rate limit")
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "apollo: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "apollo: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "apollo: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "apollo: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("apollo: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "apollo: unmarshal response")
	}

	return nil
}

func (c *httpClient) EnrichOrganization(ctx context.Context, domain string) (*Organization, error) {
	var result enrichResponse
	payload := map[string]string{"domain": domain}
	if err := c.post(ctx, "/organizations/enrich", payload, &result); err != nil {
		return nil, err
	}
	return result.Organization, nil
}

func (c *httpClient) SearchOrganizations(ctx context.Context, name string) ([]Organization, error) {
	var result searchResponse
	payload := map[string]string{"q_organization_name": name}
	if err := c.post(ctx, "/mixed_companies/search", payload, &result); err != nil {
		return nil, err
	}
	return result.Organizations, nil
}

func (c *httpClient) SearchPeople(ctx context.Context, req PeopleSearchRequest) ([]Person, error) {
	var result peopleResponse
	if err := c.post(ctx, "/mixed_people/search", req, &result); err != nil {
		return nil, err
	}
	return result.People, nil
}
