package main

import (
	"context"
	"os"
	"time"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/classify"
	"github.com/sells-group/prospector/internal/contacts"
	"github.com/sells-group/prospector/internal/enrich"
	"github.com/sells-group/prospector/internal/merge"
	"github.com/sells-group/prospector/internal/pipeline"
	"github.com/sells-group/prospector/internal/store"
	anthropicpkg "github.com/sells-group/prospector/pkg/anthropic"
	"github.com/sells-group/prospector/pkg/apollo"
	"github.com/sells-group/prospector/pkg/enrichlayer"
	"github.com/sells-group/prospector/pkg/notion"
	"github.com/sells-group/prospector/pkg/perplexity"
	sfpkg "github.com/sells-group/prospector/pkg/salesforce"
)

// appEnv holds the initialized store, clients, and pipeline shared by the
// serve/search/export commands.
type appEnv struct {
	Store        store.Store
	Orchestrator *pipeline.Orchestrator
	Assembler    *pipeline.Assembler
	Notion       notion.Client // may be nil
}

// Close releases resources held by the environment.
func (env *appEnv) Close() {
	if env.Store != nil {
		_ = env.Store.Close()
	}
}

// initApp sets up the store, all API clients, and the request pipeline.
// Callers should defer env.Close().
func initApp(ctx context.Context) (*appEnv, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	var llm anthropicpkg.Client
	if cfg.Anthropic.Key != "" {
		llm = anthropicpkg.NewClient(cfg.Anthropic.Key)
	} else {
		zap.L().Warn("anthropic key not set, classification falls back to lexical rules")
	}

	var completion perplexity.Client
	if cfg.Perplexity.Key != "" {
		completion = perplexity.NewClient(cfg.Perplexity.Key,
			perplexity.WithBaseURL(cfg.Perplexity.BaseURL),
			perplexity.WithModel(cfg.Perplexity.Model),
		)
	}

	classifier := classify.New(llm, cfg.Anthropic.HaikuModel, completion)
	adapters := enrich.BuildAdapters(cfg)

	order, err := merge.LoadSourceOrder(cfg.Merge.SourcesFile)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	engine := merge.New(order)

	orch := pipeline.NewOrchestrator(
		adapters,
		engine,
		cfg.Pipeline.MaxConcurrentCompanies,
		st,
		time.Duration(cfg.Pipeline.CacheTTLHours)*time.Hour,
	)

	var resolver *contacts.Resolver
	if cfg.Apollo.Key != "" {
		people := apollo.NewClient(cfg.Apollo.Key,
			apollo.WithBaseURL(cfg.Apollo.BaseURL),
			apollo.WithRateLimit(cfg.Apollo.RPS),
		)
		var verifier enrichlayer.Client
		if cfg.EnrichLayer.Key != "" {
			verifier = enrichlayer.NewClient(cfg.EnrichLayer.Key,
				enrichlayer.WithBaseURL(cfg.EnrichLayer.BaseURL),
				enrichlayer.WithRateLimit(cfg.EnrichLayer.RPS),
			)
		}
		resolver = contacts.NewResolver(people, verifier, cfg.Pipeline.ContactLimit, cfg.Pipeline.VerifyThreshold)
	} else {
		zap.L().Info("apollo key not set, contact resolution disabled")
	}

	env := &appEnv{
		Store:        st,
		Orchestrator: orch,
		Assembler:    pipeline.NewAssembler(classifier, orch, completion, resolver),
	}

	if cfg.Notion.Token != "" {
		env.Notion = notion.NewClient(cfg.Notion.Token)
	}

	return env, nil
}

// initSalesforce authenticates against Salesforce with the configured JWT key.
func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (PROSPECTOR_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf), nil
}
