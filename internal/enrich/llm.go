package enrich

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/model"
	"github.com/sells-group/prospector/internal/validate"
	"github.com/sells-group/prospector/pkg/perplexity"
)

const completionPrompt = `Provide key facts about the company "%s"%s.
Return a valid JSON object with exactly these fields, all present, using an
empty string for anything you do not know. Never use null.
{
  "company_name": "",
  "domain": "",
  "geography": "",
  "revenue": "",
  "employees": "",
  "linkedin_url": ""
}`

// PerplexityAdapter asks a general-purpose completion model to emit a
// fixed-schema JSON object for the company.
type PerplexityAdapter struct {
	client perplexity.Client
}

// NewPerplexityAdapter creates the LLM-completion adapter.
func NewPerplexityAdapter(client perplexity.Client) *PerplexityAdapter {
	return &PerplexityAdapter{client: client}
}

func (a *PerplexityAdapter) Name() string { return "perplexity" }

func (a *PerplexityAdapter) Fetch(ctx context.Context, companyName, knownDomain string) model.PartialCompanyRecord {
	log := zap.L().With(zap.String("adapter", a.Name()), zap.String("company", companyName))

	hint := ""
	if knownDomain != "" {
		hint = fmt.Sprintf(" (website: %s)", knownDomain)
	}

	temp := 0.1
	resp, err := a.client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Messages: []perplexity.Message{
			{Role: "user", Content: fmt.Sprintf(completionPrompt, companyName, hint)},
		},
		Temperature: &temp,
	})
	if err != nil {
		log.Warn("enrich: completion failed", zap.Error(err))
		return model.PartialCompanyRecord{}
	}

	var facts struct {
		CompanyName string `json:"company_name"`
		Domain      string `json:"domain"`
		Geography   string `json:"geography"`
		Revenue     string `json:"revenue"`
		Employees   string `json:"employees"`
		LinkedInURL string `json:"linkedin_url"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(resp.FirstContent())), &facts); err != nil {
		log.Warn("enrich: unparsable completion payload", zap.Error(err))
		return model.PartialCompanyRecord{}
	}

	partial := model.PartialCompanyRecord{
		Geography: usable(facts.Geography),
		Revenue:   normalizeRevenue(usable(facts.Revenue)),
		Employees: usable(facts.Employees),
	}
	if d := validate.NormalizeDomain(usable(facts.Domain)); validate.ValidDomainFormat(d) {
		partial.Domain = d
	}
	if canonical, ok := validate.CanonicalLinkedInURL(facts.LinkedInURL); ok {
		partial.LinkedInURL = canonical
	}

	return partial
}
