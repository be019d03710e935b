package validate

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

var linkedInCompanyPattern = regexp.MustCompile(`^linkedin\.com/company/([a-z0-9][a-z0-9\-_.]*)$`)

// CanonicalLinkedInURL normalizes a LinkedIn company-page URL to the form
// https://www.linkedin.com/company/<slug>. Only /company/ paths are accepted;
// personal profiles and anything else are rejected.
func CanonicalLinkedInURL(raw string) (string, bool) {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimSuffix(s, "/")

	m := linkedInCompanyPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf("https://www.linkedin.com/company/%s", m[1]), true
}

// VerifyLinkedInURL canonicalizes and optionally HEAD-probes the URL with a
// short timeout. A reachable page confirms it; a network failure accepts the
// URL on format validity alone.
func VerifyLinkedInURL(ctx context.Context, raw string) (string, bool) {
	canonical, ok := CanonicalLinkedInURL(raw)
	if !ok {
		return "", false
	}

	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, canonical, nil)
	if err != nil {
		return canonical, true
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		zap.L().Debug("validate: linkedin probe failed, accepting on format",
			zap.String("url", canonical),
		)
		return canonical, true
	}
	resp.Body.Close()

	return canonical, resp.StatusCode == http.StatusOK
}
