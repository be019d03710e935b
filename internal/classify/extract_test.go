package classify

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestExtractNamesFromLLM(t *testing.T) {
	llm := &fakeLLM{text: "Acme Corp\nGlobex Inc\n1.\nnote: these are examples"}
	c := New(llm, "model", nil)

	names := c.ExtractNames(context.Background(), "companies like acme and globex")

	assert.True(t, llm.called)
	assert.Equal(t, []string{"Acme Corp", "Globex Inc"}, names)
}

func TestExtractNamesBraceBlock(t *testing.T) {
	c := New(&fakeLLM{err: eris.New("down")}, "model", nil)

	names := c.ExtractNames(context.Background(), "look up {Acme Corp, Globex Inc; Initech}")

	assert.Equal(t, []string{"Acme Corp", "Globex Inc", "Initech"}, names)
}

func TestExtractNamesNewlineFallback(t *testing.T) {
	c := New(&fakeLLM{err: eris.New("down")}, "model", nil)

	names := c.ExtractNames(context.Background(), "Acme Corp\nGlobex Inc")

	assert.Equal(t, []string{"Acme Corp", "Globex Inc"}, names)
}

func TestExtractNamesCommaFallback(t *testing.T) {
	c := New(&fakeLLM{err: eris.New("down")}, "model", nil)

	names := c.ExtractNames(context.Background(), "Acme Corp, Globex Inc")

	assert.Equal(t, []string{"Acme Corp", "Globex Inc"}, names)
}

func TestExtractNamesSecondProvider(t *testing.T) {
	second := &fakeCompletion{text: "Acme Corp"}
	c := New(&fakeLLM{err: eris.New("down")}, "model", second)

	names := c.ExtractNames(context.Background(), "acme")

	assert.True(t, second.called)
	assert.Equal(t, []string{"Acme Corp"}, names)
}

func TestExtractNamesWholeQueryAsLastResort(t *testing.T) {
	c := New(&fakeLLM{err: eris.New("down")}, "model", &fakeCompletion{err: eris.New("down too")})

	names := c.ExtractNames(context.Background(), "Acme Corp")

	assert.Equal(t, []string{"Acme Corp"}, names)
}

func TestExtractNamesNoLLMAtAll(t *testing.T) {
	c := New(nil, "", nil)

	names := c.ExtractNames(context.Background(), "Acme Corp")

	assert.Equal(t, []string{"Acme Corp"}, names)
}

func TestDetectSubtype(t *testing.T) {
	assert.Equal(t, subtypeList, detectSubtype("a\nb"))
	assert.Equal(t, subtypeList, detectSubtype("a, b, c"))
	assert.Equal(t, subtypeTopN, detectSubtype("top 10 saas companies"))
	assert.Equal(t, subtypeTopN, detectSubtype("largest retailers in texas"))
	assert.Equal(t, subtypeSingle, detectSubtype("acme corp"))
}

func TestCleanNames(t *testing.T) {
	got := cleanNames([]string{
		"1. Acme Corp",
		"- Globex Inc",
		"• Initech",
		"2)",
		"",
		"ACME CORPORATION",
		"IBM",
		"note: extracted from query",
	})

	assert.Equal(t, []string{
		"Acme Corp",
		"Globex Inc",
		"Initech",
		"Acme Corporation",
		"IBM",
	}, got)
}

func TestFilterArtifactsLeavesEntriesUntouched(t *testing.T) {
	got := filterArtifacts([]string{"  ACME CORP  ", "3.", "- "})

	// Trimmed, but never reformatted.
	assert.Equal(t, []string{"ACME CORP"}, got)
}
