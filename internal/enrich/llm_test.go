package enrich

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestPerplexityAdapterParsesFacts(t *testing.T) {
	client := &fakeCompletion{text: "```json\n" + `{
		"company_name": "Acme Corp",
		"domain": "https://www.acme.com",
		"geography": "Boston, MA",
		"revenue": "Not available",
		"employees": "51-200",
		"linkedin_url": "https://linkedin.com/company/acme"
	}` + "\n```"}
	a := NewPerplexityAdapter(client)

	partial := a.Fetch(context.Background(), "Acme Corp", "")

	assert.Equal(t, "acme.com", partial.Domain)
	assert.Equal(t, "Boston, MA", partial.Geography)
	assert.Equal(t, "", partial.Revenue)
	assert.Equal(t, "51-200", partial.Employees)
	assert.Equal(t, "https://www.linkedin.com/company/acme", partial.LinkedInURL)
}

func TestPerplexityAdapterSentinelDomain(t *testing.T) {
	client := &fakeCompletion{text: `{"company_name": "Ghost", "domain": "Not available", "geography": "", "revenue": "", "employees": "", "linkedin_url": ""}`}
	a := NewPerplexityAdapter(client)

	partial := a.Fetch(context.Background(), "Ghost LLC", "")

	assert.True(t, partial.IsEmpty())
}

func TestPerplexityAdapterProviderError(t *testing.T) {
	a := NewPerplexityAdapter(&fakeCompletion{err: eris.New("429")})

	partial := a.Fetch(context.Background(), "Acme Corp", "")

	assert.True(t, partial.IsEmpty())
}

func TestPerplexityAdapterUnparsablePayload(t *testing.T) {
	a := NewPerplexityAdapter(&fakeCompletion{text: "Acme is a company in Boston."})

	partial := a.Fetch(context.Background(), "Acme Corp", "")

	assert.True(t, partial.IsEmpty())
}
