package merge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospector/internal/model"
)

func TestMergeLongestStringWins(t *testing.T) {
	e := New(DefaultSourceOrder)

	record := e.Merge("Acme Corp", []SourcePartial{
		{Source: "exa", Partial: model.PartialCompanyRecord{Domain: "acme.com", Revenue: "$1B"}},
		{Source: "apollo", Partial: model.PartialCompanyRecord{Revenue: "$1.2B (2023)"}},
	})

	assert.Equal(t, "$1.2B (2023)", record.Revenue)
	assert.Equal(t, "acme.com", record.Domain)
	assert.Equal(t, model.StatusVerified, record.Status)
}

func TestMergeTieGoesToEarlierProvider(t *testing.T) {
	e := New(DefaultSourceOrder)

	record := e.Merge("Acme Corp", []SourcePartial{
		{Source: "apollo", Partial: model.PartialCompanyRecord{Domain: "acme.com", Geography: "Austin, TX"}},
		{Source: "exa", Partial: model.PartialCompanyRecord{Domain: "acme.com", Geography: "Boston, MA"}},
	})

	// exa comes before apollo in the evaluation order, so its equal-length
	// value wins regardless of input order.
	assert.Equal(t, "Boston, MA", record.Geography)
}

func TestMergeDiscardsSentinels(t *testing.T) {
	e := New(DefaultSourceOrder)

	record := e.Merge("Acme Corp", []SourcePartial{
		{Source: "exa", Partial: model.PartialCompanyRecord{Domain: "acme.com", Revenue: "Not available"}},
		{Source: "perplexity", Partial: model.PartialCompanyRecord{Revenue: "undefined", Employees: ""}},
		{Source: "apollo", Partial: model.PartialCompanyRecord{Revenue: "$10M"}},
	})

	assert.Equal(t, "$10M", record.Revenue)
	assert.Equal(t, "", record.Employees)
}

func TestMergeAllProvidersFail(t *testing.T) {
	e := New(DefaultSourceOrder)

	record := e.Merge("Ghost LLC", []SourcePartial{
		{Source: "exa", Partial: model.PartialCompanyRecord{}},
		{Source: "perplexity", Partial: model.PartialCompanyRecord{}},
	})

	assert.Equal(t, "Ghost LLC", record.CompanyName)
	assert.Equal(t, "", record.Domain)
	assert.Equal(t, model.StatusNotFound, record.Status)
	assert.Equal(t, model.NoDataSource, record.Source)
}

func TestMergeDomainSentinelNeverVerifies(t *testing.T) {
	e := New(DefaultSourceOrder)

	record := e.Merge("Acme Corp", []SourcePartial{
		{Source: "perplexity", Partial: model.PartialCompanyRecord{Domain: "Not found", Revenue: "$5M"}},
	})

	// The sentinel domain is stripped before the record reaches the caller.
	assert.Equal(t, "", record.Domain)
	assert.Equal(t, model.StatusNotFound, record.Status)
	assert.Equal(t, "$5M", record.Revenue)
}

func TestMergeContributorsInEvaluationOrder(t *testing.T) {
	e := New(DefaultSourceOrder)

	record := e.Merge("Acme Corp", []SourcePartial{
		{Source: "enrichlayer", Partial: model.PartialCompanyRecord{Employees: "250"}},
		{Source: "exa", Partial: model.PartialCompanyRecord{Domain: "acme.com"}},
		{Source: "perplexity", Partial: model.PartialCompanyRecord{}},
	})

	assert.Equal(t, "exa, enrichlayer", record.Source)
}

func TestMergeIsPure(t *testing.T) {
	e := New(DefaultSourceOrder)
	partials := []SourcePartial{
		{Source: "apollo", Partial: model.PartialCompanyRecord{Domain: "acme.com", Revenue: "$1B"}},
		{Source: "exa", Partial: model.PartialCompanyRecord{Revenue: "$1.2B (2023)"}},
	}

	first := e.Merge("Acme Corp", partials)
	second := e.Merge("Acme Corp", partials)

	assert.Equal(t, first, second)
	// The input slice is left untouched.
	assert.Equal(t, "apollo", partials[0].Source)
}

func TestMergeUnknownSourceRanksLast(t *testing.T) {
	e := New([]string{"exa"})

	record := e.Merge("Acme Corp", []SourcePartial{
		{Source: "mystery", Partial: model.PartialCompanyRecord{Domain: "wrong.com"}},
		{Source: "exa", Partial: model.PartialCompanyRecord{Domain: "acme.com"}},
	})

	// Equal length: exa is ranked, mystery is not, so exa wins the tie.
	assert.Equal(t, "acme.com", record.Domain)
}

func TestLoadSourceOrderDefault(t *testing.T) {
	order, err := LoadSourceOrder("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSourceOrder, order)
}

func TestLoadSourceOrderMissingFile(t *testing.T) {
	_, err := LoadSourceOrder("/nonexistent/sources.yaml")
	require.Error(t, err)
}

func TestLoadSourceOrderFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources:\n  - apollo\n  - exa\n"), 0o644))

	order, err := LoadSourceOrder(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"apollo", "exa"}, order)
}

func TestLoadSourceOrderEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources: []\n"), 0o644))

	_, err := LoadSourceOrder(path)
	require.Error(t, err)
}
