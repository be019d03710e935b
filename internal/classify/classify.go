// Package classify decides what shape a free-text query has: an explicit list
// of company names, a company lookup that needs name extraction, a person
// search, or a general knowledge question.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/model"
	"github.com/sells-group/prospector/pkg/anthropic"
	"github.com/sells-group/prospector/pkg/perplexity"
)

const intentSystemPrompt = `Classify search queries into exactly one of these categories: company, person, general. Respond with a valid JSON object: {"intent": "<category>", "confidence": <0.0-1.0>}`

const intentUserPrompt = `Query: %s`

// interrogativeMarkers disqualify a query from lexical list detection: a line
// containing one of these is a question, not a company name.
var interrogativeMarkers = []string{"?", "what", "how", "find", "search"}

// businessMarkers make an unclassifiable query default to company intent.
var businessMarkers = []string{
	"company", "companies", "inc", "corp", "llc", "ltd",
	"startup", "startups", "firm", "firms", "vendor", "vendors",
}

// Classifier decides query intent, using an LLM where lexical rules cannot.
// Both LLM clients are optional; with neither configured the classifier is
// fully deterministic.
type Classifier struct {
	llm       anthropic.Client
	llmModel  string
	secondLLM perplexity.Client
}

// New creates a Classifier. Either client may be nil.
func New(llm anthropic.Client, llmModel string, secondLLM perplexity.Client) *Classifier {
	return &Classifier{llm: llm, llmModel: llmModel, secondLLM: secondLLM}
}

// Classify maps raw query text to a ClassifiedQuery. It never fails: any LLM
// error or out-of-set label falls back to a deterministic default.
func (c *Classifier) Classify(ctx context.Context, rawQuery string) model.ClassifiedQuery {
	// 1. Lexical list detection. Multiple non-blank lines with no
	//    interrogative markers are literal company names; no LLM call.
	if names, ok := detectLiteralList(rawQuery); ok {
		return model.ClassifiedQuery{
			EnhancedQuery:   rawQuery,
			SearchIntent:    model.IntentCompany,
			ConfidenceScore: 1.0,
			CompanyNames:    names,
		}
	}

	// 2. LLM intent classification against the fixed label set.
	intent, confidence := c.llmIntent(ctx, rawQuery)
	if intent == model.IntentUnclassified {
		intent = defaultIntent(rawQuery)
		confidence = 0.5
	}

	return model.ClassifiedQuery{
		EnhancedQuery:   rawQuery,
		SearchIntent:    intent,
		ConfidenceScore: confidence,
	}
}

// detectLiteralList returns the query's lines as company names when every
// line is non-blank and no interrogative marker appears anywhere.
func detectLiteralList(rawQuery string) ([]string, bool) {
	lower := strings.ToLower(rawQuery)
	for _, marker := range interrogativeMarkers {
		if strings.Contains(lower, marker) {
			return nil, false
		}
	}

	var lines []string
	for _, line := range strings.Split(rawQuery, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) < 2 {
		return nil, false
	}

	// Literal lines pass through untouched apart from artifact filtering;
	// callers get exactly what the user typed, in order.
	names := filterArtifacts(lines)
	if len(names) < 2 {
		return nil, false
	}
	return names, true
}

// llmIntent asks the LLM for an intent label. Anything outside the fixed set,
// and any provider failure, yields IntentUnclassified.
func (c *Classifier) llmIntent(ctx context.Context, rawQuery string) (model.SearchIntent, float64) {
	if c.llm == nil {
		return model.IntentUnclassified, 0
	}

	resp, err := c.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     c.llmModel,
		MaxTokens: 128,
		System:    intentSystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(intentUserPrompt, rawQuery)},
		},
	})
	if err != nil {
		zap.L().Warn("classify: intent call failed", zap.Error(err))
		return model.IntentUnclassified, 0
	}

	return parseIntent(resp.Text())
}

// parseIntent extracts and validates the intent label from LLM output.
func parseIntent(text string) (model.SearchIntent, float64) {
	var result struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &result); err != nil {
		return model.IntentUnclassified, 0
	}

	intent := model.SearchIntent(strings.ToLower(strings.TrimSpace(result.Intent)))
	for _, valid := range model.AllIntents() {
		if intent == valid {
			return intent, result.Confidence
		}
	}
	return model.IntentUnclassified, 0
}

// defaultIntent is the deterministic fallback when the LLM gives no usable
// label: company for business-sounding text, general otherwise.
func defaultIntent(rawQuery string) model.SearchIntent {
	lower := strings.ToLower(rawQuery)
	for _, marker := range businessMarkers {
		if containsWord(lower, marker) {
			return model.IntentCompany
		}
	}
	return model.IntentGeneral
}

func containsWord(text, word string) bool {
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if tok == word {
			return true
		}
	}
	return false
}

// cleanJSON extracts a JSON object from text that may contain markdown code
// fences or surrounding prose.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
