package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/model"
	"github.com/sells-group/prospector/internal/validate"
	"github.com/sells-group/prospector/pkg/anthropic"
	"github.com/sells-group/prospector/pkg/exa"
)

// excludedDomains are social and reference sites whose hits would shadow a
// company's own website in search results.
var excludedDomains = []string{
	"linkedin.com",
	"facebook.com",
	"twitter.com",
	"x.com",
	"instagram.com",
	"youtube.com",
	"wikipedia.org",
	"crunchbase.com",
	"bloomberg.com",
	"glassdoor.com",
}

const exaExtractPrompt = `Extract company facts from the following search results for "%s".
Return a valid JSON object with exactly these fields:
- geography: string (headquarters city/state/country)
- revenue: string (e.g. "$25M")
- employees: string (count or range, e.g. "51-200")
- linkedin_url: string (company page URL)

Only include a value when it is explicitly stated in the text below. Use an
empty string for anything not stated. Do not infer or estimate.

Search results:
%s`

// ExaAdapter resolves a company's domain from semantic search hits and
// optionally fills detail fields via LLM extraction over the hit content.
type ExaAdapter struct {
	client     exa.Client
	llm        anthropic.Client
	llmModel   string
	numResults int
	prober     *validate.Prober
}

// NewExaAdapter creates the semantic-search adapter. llm may be nil, in which
// case only the domain is resolved.
func NewExaAdapter(client exa.Client, llm anthropic.Client, llmModel string, numResults int, prober *validate.Prober) *ExaAdapter {
	if numResults <= 0 {
		numResults = 5
	}
	return &ExaAdapter{client: client, llm: llm, llmModel: llmModel, numResults: numResults, prober: prober}
}

func (a *ExaAdapter) Name() string { return "exa" }

func (a *ExaAdapter) Fetch(ctx context.Context, companyName, knownDomain string) model.PartialCompanyRecord {
	log := zap.L().With(zap.String("adapter", a.Name()), zap.String("company", companyName))

	resp, err := a.client.Search(ctx, exa.SearchRequest{
		Query:          fmt.Sprintf("%s official website", companyName),
		NumResults:     a.numResults,
		ExcludeDomains: excludedDomains,
		Contents:       &exa.Contents{Text: true},
	})
	if err != nil {
		log.Warn("enrich: search failed", zap.Error(err))
		return model.PartialCompanyRecord{}
	}
	if len(resp.Results) == 0 {
		log.Debug("enrich: no search hits")
		return model.PartialCompanyRecord{}
	}

	partial := model.PartialCompanyRecord{}

	// First hit's host is the candidate domain, unless the caller already
	// knows one.
	if knownDomain != "" {
		partial.Domain = validate.NormalizeDomain(knownDomain)
	} else if d := firstHitDomain(resp.Results); d != "" && a.prober.Reachable(ctx, d) {
		partial.Domain = d
	}

	// Optional detail extraction over concatenated hit content. A field is
	// accepted only when explicitly present in the extracted JSON.
	if a.llm != nil {
		a.extractDetails(ctx, companyName, resp.Results, &partial, log)
	}

	return partial
}

// firstHitDomain returns the normalized host of the first hit with a
// well-formed URL.
func firstHitDomain(results []exa.Result) string {
	for _, r := range results {
		u, err := url.Parse(r.URL)
		if err != nil || u.Host == "" {
			continue
		}
		d := validate.NormalizeDomain(u.Host)
		if validate.ValidDomainFormat(d) {
			return d
		}
	}
	return ""
}

func (a *ExaAdapter) extractDetails(ctx context.Context, companyName string, results []exa.Result, partial *model.PartialCompanyRecord, log *zap.Logger) {
	var b strings.Builder
	for i, r := range results {
		if i >= a.numResults {
			break
		}
		content := r.Text
		if content == "" {
			content = r.Snippet
		}
		if len(content) > 1500 {
			content = content[:1500]
		}
		fmt.Fprintf(&b, "[%s](%s)\n%s\n\n", r.Title, r.URL, content)
	}

	resp, err := a.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     a.llmModel,
		MaxTokens: 512,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(exaExtractPrompt, companyName, b.String())},
		},
	})
	if err != nil {
		log.Warn("enrich: extraction failed", zap.Error(err))
		return
	}

	var extracted struct {
		Geography   string `json:"geography"`
		Revenue     string `json:"revenue"`
		Employees   string `json:"employees"`
		LinkedInURL string `json:"linkedin_url"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(resp.Text())), &extracted); err != nil {
		log.Warn("enrich: unparsable extraction payload", zap.Error(err))
		return
	}

	partial.Geography = usable(extracted.Geography)
	partial.Revenue = normalizeRevenue(usable(extracted.Revenue))
	partial.Employees = usable(extracted.Employees)
	if canonical, ok := validate.CanonicalLinkedInURL(extracted.LinkedInURL); ok {
		partial.LinkedInURL = canonical
	}
}
