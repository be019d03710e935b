package validate

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// genericPrefixes are role inboxes that never identify a person.
var genericPrefixes = map[string]bool{
	"info":      true,
	"contact":   true,
	"sales":     true,
	"support":   true,
	"admin":     true,
	"hello":     true,
	"office":    true,
	"team":      true,
	"marketing": true,
}

// ValidContactEmail reports whether email identifies a person at the target
// company. The domain part must equal the company domain exactly
// (case-insensitive, subdomains fail) and the local part must not be a
// generic role inbox.
func ValidContactEmail(email, companyDomain string) bool {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return false
	}

	at := strings.LastIndex(email, "@")
	local := strings.ToLower(email[:at])
	domain := strings.ToLower(email[at+1:])

	if genericPrefixes[local] {
		return false
	}

	return domain == NormalizeDomain(companyDomain)
}
