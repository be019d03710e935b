package classify

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/prospector/pkg/anthropic"
	"github.com/sells-group/prospector/pkg/perplexity"
)

// querySubtype biases the extraction prompt toward the expected output shape.
type querySubtype string

const (
	subtypeList   querySubtype = "list"
	subtypeTopN   querySubtype = "top_n"
	subtypeSingle querySubtype = "single"
)

const extractListPrompt = `The following text contains an explicit list of company names. Return only the company names, one per line, with no numbering, bullets, or commentary.

%s`

const extractTopNPrompt = `The following request asks for a ranked or "top N" list of companies. Expand it into actual company names. Return only the company names, one per line, with no numbering, bullets, or commentary.

%s`

const extractSinglePrompt = `Extract the company name(s) mentioned in the following text. Return only the company names, one per line, with no numbering, bullets, or commentary. If no company is mentioned, return nothing.

%s`

var topNPattern = regexp.MustCompile(`(?i)\b(top|best|largest|leading|biggest)\s+\d*\s*\w*`)

// artifactPattern matches list-formatting leftovers: entries that are purely
// numbers, bullets, or punctuation.
var artifactPattern = regexp.MustCompile(`^[\d\.\)\(\-\*•\s]+$`)

// enumPrefixPattern strips a leading "1. ", "2) ", "- ", "• " from an entry.
var enumPrefixPattern = regexp.MustCompile(`^\s*(?:\d+[\.\)]|[-*•])\s+`)

var titleCaser = cases.Title(language.English)

// ExtractNames resolves free text with company intent into a list of company
// names. It never fails and never returns an empty list: the strategies are
// tried in order and the last one accepts the whole query as a single name.
func (c *Classifier) ExtractNames(ctx context.Context, query string) []string {
	st := detectSubtype(query)

	if names := c.llmExtract(ctx, query, st); len(names) > 0 {
		return names
	}

	// Deterministic fallback chain. Each strategy either returns a non-empty
	// name list or defers to the next; the order is a first-class structure.
	strategies := []func(context.Context, string) []string{
		braceStrategy,
		newlineStrategy,
		commaStrategy,
		c.secondLLMStrategy,
		singleNameStrategy,
	}
	for _, strategy := range strategies {
		if names := strategy(ctx, query); len(names) > 0 {
			return names
		}
	}

	// Unreachable: singleNameStrategy always returns one name.
	return []string{strings.TrimSpace(query)}
}

// detectSubtype picks the extraction prompt variant.
func detectSubtype(query string) querySubtype {
	if strings.Contains(query, "\n") || strings.Count(query, ",") >= 2 {
		return subtypeList
	}
	if topNPattern.MatchString(query) {
		return subtypeTopN
	}
	return subtypeSingle
}

// llmExtract asks the primary LLM for a newline-delimited name list.
func (c *Classifier) llmExtract(ctx context.Context, query string, st querySubtype) []string {
	if c.llm == nil {
		return nil
	}

	var prompt string
	switch st {
	case subtypeList:
		prompt = fmt.Sprintf(extractListPrompt, query)
	case subtypeTopN:
		prompt = fmt.Sprintf(extractTopNPrompt, query)
	default:
		prompt = fmt.Sprintf(extractSinglePrompt, query)
	}

	resp, err := c.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     c.llmModel,
		MaxTokens: 512,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		zap.L().Warn("classify: name extraction failed", zap.Error(err))
		return nil
	}

	return cleanNames(strings.Split(resp.Text(), "\n"))
}

// braceStrategy pulls names out of a {...} bracket block, split on commas or
// newlines.
func braceStrategy(_ context.Context, query string) []string {
	start := strings.Index(query, "{")
	end := strings.LastIndex(query, "}")
	if start < 0 || end <= start {
		return nil
	}
	inner := query[start+1 : end]
	parts := strings.FieldsFunc(inner, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})
	return cleanNames(parts)
}

// newlineStrategy splits a multi-line query into one name per line.
func newlineStrategy(_ context.Context, query string) []string {
	lines := strings.Split(query, "\n")
	if len(lines) < 2 {
		return nil
	}
	return cleanNames(lines)
}

// commaStrategy splits a comma-delimited query into names.
func commaStrategy(_ context.Context, query string) []string {
	if strings.Count(query, ",") < 1 {
		return nil
	}
	return cleanNames(strings.Split(query, ","))
}

// secondLLMStrategy retries extraction against the secondary completion
// provider.
func (c *Classifier) secondLLMStrategy(ctx context.Context, query string) []string {
	if c.secondLLM == nil {
		return nil
	}

	temp := 0.1
	resp, err := c.secondLLM.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Messages: []perplexity.Message{
			{Role: "user", Content: fmt.Sprintf(extractSinglePrompt, query)},
		},
		Temperature: &temp,
	})
	if err != nil {
		zap.L().Warn("classify: second-provider extraction failed", zap.Error(err))
		return nil
	}

	return cleanNames(strings.Split(resp.FirstContent(), "\n"))
}

// singleNameStrategy treats the entire raw query as one company name. It is
// the terminal strategy and always succeeds for non-blank input.
func singleNameStrategy(_ context.Context, query string) []string {
	name := strings.TrimSpace(query)
	if name == "" {
		return nil
	}
	return []string{name}
}

// filterArtifacts drops list-formatting leftovers without altering the
// surviving entries.
func filterArtifacts(entries []string) []string {
	var out []string
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" || artifactPattern.MatchString(e) {
			continue
		}
		if strings.HasPrefix(strings.ToLower(e), "note:") {
			continue
		}
		out = append(out, e)
	}
	return out
}

// cleanNames normalizes LLM-extracted entries: strips enumeration prefixes,
// drops artifacts, and title-cases shouty all-caps names.
func cleanNames(entries []string) []string {
	var out []string
	for _, e := range filterArtifacts(entries) {
		e = enumPrefixPattern.ReplaceAllString(e, "")
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		// "ACME CORPORATION" reads better as "Acme Corporation"; short
		// all-caps tokens like IBM are left alone.
		if len(e) > 4 && e == strings.ToUpper(e) && strings.Contains(e, " ") {
			e = titleCaser.String(strings.ToLower(e))
		}
		out = append(out, e)
	}
	return out
}
