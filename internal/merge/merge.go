// Package merge reconciles per-provider partial records into one company
// record per name.
package merge

import (
	"sort"
	"strings"

	"github.com/sells-group/prospector/internal/model"
)

// SourcePartial pairs a provider name with its contribution.
type SourcePartial struct {
	Source  string
	Partial model.PartialCompanyRecord
}

// Engine folds partial records using a fixed per-field policy: sentinel values
// are discarded, the longest surviving string wins, and ties go to the
// earliest provider in the evaluation order.
type Engine struct {
	order map[string]int
}

// New creates an Engine with the given provider evaluation order. Providers
// not in the list are evaluated after listed ones, in encounter order.
func New(order []string) *Engine {
	m := make(map[string]int, len(order))
	for i, name := range order {
		m[name] = i
	}
	return &Engine{order: m}
}

// Merge combines partials into a single record. It is a pure function of its
// inputs: re-merging the same partial list yields identical output.
func (e *Engine) Merge(companyName string, partials []SourcePartial) model.CompanyRecord {
	ordered := e.sortPartials(partials)

	record := model.CompanyRecord{
		CompanyName: companyName,
		Domain:      bestValue(ordered, func(p model.PartialCompanyRecord) string { return p.Domain }),
		Geography:   bestValue(ordered, func(p model.PartialCompanyRecord) string { return p.Geography }),
		Revenue:     bestValue(ordered, func(p model.PartialCompanyRecord) string { return p.Revenue }),
		Employees:   bestValue(ordered, func(p model.PartialCompanyRecord) string { return p.Employees }),
		LinkedInURL: bestValue(ordered, func(p model.PartialCompanyRecord) string { return p.LinkedInURL }),
	}

	record.Source = contributors(ordered)
	if model.IsUsableDomain(record.Domain) {
		record.Status = model.StatusVerified
	} else {
		// Sentinel error tokens are provider-internal; callers see empty.
		record.Status = model.StatusNotFound
		record.Domain = ""
	}

	return record
}

// sortPartials orders contributions by the configured evaluation order,
// stable so unknown providers keep their encounter order.
func (e *Engine) sortPartials(partials []SourcePartial) []SourcePartial {
	ordered := make([]SourcePartial, len(partials))
	copy(ordered, partials)
	sort.SliceStable(ordered, func(i, j int) bool {
		return e.rank(ordered[i].Source) < e.rank(ordered[j].Source)
	})
	return ordered
}

func (e *Engine) rank(source string) int {
	if r, ok := e.order[source]; ok {
		return r
	}
	return len(e.order)
}

// bestValue applies the per-field policy: discard unusable values, then take
// the longest string, first provider winning ties.
func bestValue(ordered []SourcePartial, field func(model.PartialCompanyRecord) string) string {
	best := ""
	for _, sp := range ordered {
		v := strings.TrimSpace(field(sp.Partial))
		if !model.IsUsableValue(v) {
			continue
		}
		if len(v) > len(best) {
			best = v
		}
	}
	return best
}

// contributors joins the names of providers that contributed at least one
// usable field, in evaluation order.
func contributors(ordered []SourcePartial) string {
	var names []string
	seen := make(map[string]bool)
	for _, sp := range ordered {
		if seen[sp.Source] || sp.Partial.IsEmpty() {
			continue
		}
		seen[sp.Source] = true
		names = append(names, sp.Source)
	}
	if len(names) == 0 {
		return model.NoDataSource
	}
	return strings.Join(names, ", ")
}
