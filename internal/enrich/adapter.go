// Package enrich adapts each external data provider to the common
// partial-record contract used by the fan-out pipeline.
package enrich

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/config"
	"github.com/sells-group/prospector/internal/model"
	"github.com/sells-group/prospector/internal/validate"
	"github.com/sells-group/prospector/pkg/anthropic"
	"github.com/sells-group/prospector/pkg/apollo"
	"github.com/sells-group/prospector/pkg/enrichlayer"
	"github.com/sells-group/prospector/pkg/exa"
	"github.com/sells-group/prospector/pkg/perplexity"
)

// Adapter fetches a provider's view of one company. Fetch never fails: a
// missing credential, provider error, or malformed payload yields an empty
// partial, indistinguishable to the caller from "provider knows nothing".
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, companyName, knownDomain string) model.PartialCompanyRecord
}

// BuildAdapters constructs the adapter set from configuration. Providers with
// no credential are skipped; the request proceeds with whatever remains.
func BuildAdapters(cfg *config.Config) []Adapter {
	var adapters []Adapter

	var llm anthropic.Client
	if cfg.Anthropic.Key != "" {
		llm = anthropic.NewClient(cfg.Anthropic.Key)
	}

	prober := validate.NewProber(time.Duration(cfg.Pipeline.ProbeTimeoutSecs) * time.Second)

	if cfg.Exa.Key != "" {
		client := exa.NewClient(cfg.Exa.Key, exa.WithBaseURL(cfg.Exa.BaseURL))
		adapters = append(adapters, NewExaAdapter(client, llm, cfg.Anthropic.HaikuModel, cfg.Exa.NumResults, prober))
	} else {
		zap.L().Info("enrich: exa adapter disabled, no api key")
	}

	if cfg.Perplexity.Key != "" {
		client := perplexity.NewClient(cfg.Perplexity.Key,
			perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
			perplexity.WithModel(cfg.Perplexity.Model),
		)
		adapters = append(adapters, NewPerplexityAdapter(client))
	} else {
		zap.L().Info("enrich: perplexity adapter disabled, no api key")
	}

	if cfg.Apollo.Key != "" {
		client := apollo.NewClient(cfg.Apollo.Key,
			apollo.WithBaseURL(cfg.Apollo.BaseURL),
			apollo.WithRateLimit(cfg.Apollo.RPS),
		)
		adapters = append(adapters, NewApolloAdapter(client))
	} else {
		zap.L().Info("enrich: apollo adapter disabled, no api key")
	}

	if cfg.EnrichLayer.Key != "" {
		client := enrichlayer.NewClient(cfg.EnrichLayer.Key,
			enrichlayer.WithBaseURL(cfg.EnrichLayer.BaseURL),
			enrichlayer.WithRateLimit(cfg.EnrichLayer.RPS),
		)
		adapters = append(adapters, NewEnrichLayerAdapter(client))
	} else {
		zap.L().Info("enrich: enrichlayer adapter disabled, no api key")
	}

	return adapters
}

// revenueUnits orders the normalization suffixes largest-first.
var revenueUnits = []struct {
	factor float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// normalizeRevenue converts a bare numeric revenue into "$<amount><unit>"
// form. Values that already carry formatting pass through untouched.
func normalizeRevenue(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	n, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return raw
	}

	for _, u := range revenueUnits {
		if n >= u.factor {
			v := n / u.factor
			if v == float64(int64(v)) {
				return fmt.Sprintf("$%d%s", int64(v), u.suffix)
			}
			return fmt.Sprintf("$%.1f%s", v, u.suffix)
		}
	}
	return fmt.Sprintf("$%.0f", n)
}

// employeeCountString renders a positive employee count, "" otherwise.
func employeeCountString(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// usable filters out empty strings and provider sentinels so adapters emit
// sparse partials.
func usable(v string) string {
	if !model.IsUsableValue(v) {
		return ""
	}
	return strings.TrimSpace(v)
}

// cleanJSON extracts a JSON object from LLM output that may be wrapped in
// markdown fences or prose.
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
