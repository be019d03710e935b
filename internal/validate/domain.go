// Package validate holds the pure predicate and normalization helpers used by
// the provider adapters and the merge stage.
package validate

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

var domainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)+$`)

// NormalizeDomain strips scheme, www. prefix, path, and port from a raw URL
// or host string and lower-cases the result.
func NormalizeDomain(raw string) string {
	d := strings.TrimSpace(strings.ToLower(raw))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	if idx := strings.IndexAny(d, "/?#"); idx >= 0 {
		d = d[:idx]
	}
	if idx := strings.Index(d, ":"); idx >= 0 {
		d = d[:idx]
	}
	return d
}

// ValidDomainFormat reports whether a normalized domain looks structurally
// valid (at least one dot, label characters only).
func ValidDomainFormat(domain string) bool {
	return domainPattern.MatchString(NormalizeDomain(domain))
}

// Prober checks domain reachability with a short-timeout HTTP probe.
type Prober struct {
	http *http.Client
}

// NewProber creates a Prober. Redirects are followed so parked apex domains
// that bounce to www still count as reachable.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Prober{
		http: &http.Client{Timeout: timeout},
	}
}

// Reachable reports whether the domain answers an HTTP probe. It tries HTTPS
// first and falls back to plain HTTP. On network failure it falls back to the
// format check: provider availability must not block correctness.
func (p *Prober) Reachable(ctx context.Context, domain string) bool {
	domain = NormalizeDomain(domain)
	if !ValidDomainFormat(domain) {
		return false
	}

	for _, scheme := range []string{"https://", "http://"} {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, scheme+domain, nil)
		if err != nil {
			continue
		}
		resp, err := p.http.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode < 500 {
			return true
		}
	}

	zap.L().Debug("validate: domain probe failed, accepting on format",
		zap.String("domain", domain),
	)
	return true
}
