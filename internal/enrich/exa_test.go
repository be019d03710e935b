package enrich

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/prospector/internal/validate"
	"github.com/sells-group/prospector/pkg/exa"
)

func TestExaAdapterSearchFailure(t *testing.T) {
	a := NewExaAdapter(&fakeExa{err: eris.New("boom")}, nil, "", 5, validate.NewProber(time.Second))

	partial := a.Fetch(context.Background(), "Acme Corp", "")

	assert.True(t, partial.IsEmpty())
}

func TestExaAdapterNoHits(t *testing.T) {
	a := NewExaAdapter(&fakeExa{resp: &exa.SearchResponse{}}, nil, "", 5, validate.NewProber(time.Second))

	partial := a.Fetch(context.Background(), "Acme Corp", "")

	assert.True(t, partial.IsEmpty())
}

func TestExaAdapterKnownDomainSkipsProbe(t *testing.T) {
	client := &fakeExa{resp: &exa.SearchResponse{Results: []exa.Result{
		{Title: "Acme", URL: "https://www.acme.com/about"},
	}}}
	a := NewExaAdapter(client, nil, "", 5, validate.NewProber(time.Second))

	partial := a.Fetch(context.Background(), "Acme Corp", "https://www.acme.com")

	assert.Equal(t, "acme.com", partial.Domain)
}

func TestExaAdapterExtractsDetails(t *testing.T) {
	client := &fakeExa{resp: &exa.SearchResponse{Results: []exa.Result{
		{Title: "Acme", URL: "https://www.acme.com", Text: "Acme Corp, Boston. $25M revenue."},
	}}}
	llm := &fakeLLM{text: `{"geography": "Boston, MA", "revenue": "25000000", "employees": "51-200", "linkedin_url": "linkedin.com/company/acme"}`}
	a := NewExaAdapter(client, llm, "model", 5, validate.NewProber(time.Second))

	partial := a.Fetch(context.Background(), "Acme Corp", "acme.com")

	assert.Equal(t, "acme.com", partial.Domain)
	assert.Equal(t, "Boston, MA", partial.Geography)
	assert.Equal(t, "$25M", partial.Revenue)
	assert.Equal(t, "51-200", partial.Employees)
	assert.Equal(t, "https://www.linkedin.com/company/acme", partial.LinkedInURL)
}

func TestExaAdapterRejectsPersonalLinkedIn(t *testing.T) {
	client := &fakeExa{resp: &exa.SearchResponse{Results: []exa.Result{
		{Title: "Acme", URL: "https://www.acme.com"},
	}}}
	llm := &fakeLLM{text: `{"geography": "", "revenue": "", "employees": "", "linkedin_url": "linkedin.com/in/jane-doe"}`}
	a := NewExaAdapter(client, llm, "model", 5, validate.NewProber(time.Second))

	partial := a.Fetch(context.Background(), "Acme Corp", "acme.com")

	assert.Equal(t, "", partial.LinkedInURL)
}

func TestExaAdapterBadExtractionPayload(t *testing.T) {
	client := &fakeExa{resp: &exa.SearchResponse{Results: []exa.Result{
		{Title: "Acme", URL: "https://www.acme.com"},
	}}}
	llm := &fakeLLM{text: "I could not find structured data."}
	a := NewExaAdapter(client, llm, "model", 5, validate.NewProber(time.Second))

	partial := a.Fetch(context.Background(), "Acme Corp", "acme.com")

	// Domain survives; the unparsable extraction contributes nothing.
	assert.Equal(t, "acme.com", partial.Domain)
	assert.Equal(t, "", partial.Geography)
}

func TestFirstHitDomain(t *testing.T) {
	results := []exa.Result{
		{URL: "::not a url::"},
		{URL: "https://www.acme.com/about"},
		{URL: "https://other.com"},
	}
	assert.Equal(t, "acme.com", firstHitDomain(results))
	assert.Equal(t, "", firstHitDomain(nil))
}
