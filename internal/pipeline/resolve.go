// Package pipeline runs the fan-out, merge, and response assembly for one
// search request.
package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospector/internal/enrich"
	"github.com/sells-group/prospector/internal/merge"
	"github.com/sells-group/prospector/internal/model"
	"github.com/sells-group/prospector/internal/store"
)

// Orchestrator fans lookups out across all provider adapters and company
// names, merging each name's partials into one record.
type Orchestrator struct {
	adapters      []enrich.Adapter
	engine        *merge.Engine
	maxConcurrent int
	cache         store.RecordCache
	cacheTTL      time.Duration
}

// NewOrchestrator creates an Orchestrator. cache may be nil.
func NewOrchestrator(adapters []enrich.Adapter, engine *merge.Engine, maxConcurrent int, cache store.RecordCache, cacheTTL time.Duration) *Orchestrator {
	if maxConcurrent <= 0 {
		maxConcurrent = 25
	}
	return &Orchestrator{
		adapters:      adapters,
		engine:        engine,
		maxConcurrent: maxConcurrent,
		cache:         cache,
		cacheTTL:      cacheTTL,
	}
}

// Resolve produces one record per input name, in input order. No name is
// dropped: a name every adapter fails on still yields a not_found record.
func (o *Orchestrator) Resolve(ctx context.Context, names []string) []model.CompanyRecord {
	return o.resolve(ctx, names, o.adapters)
}

// ResolveQuick is the single-provider path used for LLM-extracted name lists,
// trading field coverage for latency by querying only the first adapter in
// the evaluation order.
func (o *Orchestrator) ResolveQuick(ctx context.Context, names []string) []model.CompanyRecord {
	if len(o.adapters) == 0 {
		return o.resolve(ctx, names, nil)
	}
	return o.resolve(ctx, names, o.adapters[:1])
}

func (o *Orchestrator) resolve(ctx context.Context, names []string, adapters []enrich.Adapter) []model.CompanyRecord {
	records := make([]model.CompanyRecord, len(names))

	g := new(errgroup.Group)
	g.SetLimit(o.maxConcurrent)
	for i, name := range names {
		g.Go(func() error {
			records[i] = o.resolveOne(ctx, name, adapters)
			return nil
		})
	}
	// Adapter failures are absorbed as empty partials; nothing errors here.
	_ = g.Wait()

	return records
}

// resolveOne fans out across adapters for one name and merges whatever comes
// back. It waits for every adapter to settle so a slow provider cannot leave
// the merge with a half-updated record.
func (o *Orchestrator) resolveOne(ctx context.Context, name string, adapters []enrich.Adapter) model.CompanyRecord {
	if o.cache != nil {
		if cached, err := o.cache.GetCachedRecord(ctx, name); err != nil {
			zap.L().Debug("pipeline: record cache lookup failed", zap.Error(err))
		} else if cached != nil {
			zap.L().Debug("pipeline: using cached record", zap.String("company", name))
			return *cached
		}
	}

	partials := make([]merge.SourcePartial, len(adapters))
	var wg sync.WaitGroup
	for i, adapter := range adapters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			partials[i] = merge.SourcePartial{
				Source:  adapter.Name(),
				Partial: adapter.Fetch(ctx, name, ""),
			}
		}()
	}
	wg.Wait()

	record := o.engine.Merge(name, partials)

	zap.L().Info("pipeline: resolved company",
		zap.String("company", name),
		zap.String("domain", record.Domain),
		zap.String("status", string(record.Status)),
		zap.String("source", record.Source),
	)

	if o.cache != nil && record.Status == model.StatusVerified {
		if err := o.cache.SetCachedRecord(ctx, name, record, o.cacheTTL); err != nil {
			zap.L().Debug("pipeline: record cache write failed", zap.Error(err))
		}
	}

	return record
}
