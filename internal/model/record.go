package model

import "strings"

// RecordStatus marks whether a company lookup resolved a usable identifier.
type RecordStatus string

const (
	StatusVerified RecordStatus = "verified"
	StatusNotFound RecordStatus = "not_found"
)

// CompanyRecord is one resolved company, merged from all provider partials.
// Immutable once returned to the caller.
type CompanyRecord struct {
	CompanyName string       `json:"companyName"`
	Domain      string       `json:"domain"`
	Geography   string       `json:"geography"`
	Revenue     string       `json:"revenue"`
	Employees   string       `json:"employees"`
	LinkedInURL string       `json:"linkedinUrl"`
	Source      string       `json:"source"`
	Status      RecordStatus `json:"status"`
}

// PartialCompanyRecord is a single provider's contribution before merging.
// Any field may be empty; providers emit only what they actually know.
type PartialCompanyRecord struct {
	Domain      string `json:"domain,omitempty"`
	Geography   string `json:"geography,omitempty"`
	Revenue     string `json:"revenue,omitempty"`
	Employees   string `json:"employees,omitempty"`
	LinkedInURL string `json:"linkedinUrl,omitempty"`
}

// IsEmpty reports whether the partial carries no data at all.
func (p PartialCompanyRecord) IsEmpty() bool {
	return !IsUsableValue(p.Domain) &&
		!IsUsableValue(p.Geography) &&
		!IsUsableValue(p.Revenue) &&
		!IsUsableValue(p.Employees) &&
		!IsUsableValue(p.LinkedInURL)
}

// fieldSentinels are placeholder strings providers emit instead of real data.
var fieldSentinels = map[string]bool{
	"not available": true,
	"undefined":     true,
}

// domainSentinels are error tokens that may leak into a domain field from a
// failed provider path. A domain equal to one of these never verifies.
var domainSentinels = map[string]bool{
	"not found":   true,
	"error":       true,
	"parse error": true,
	"api error":   true,
	"no response": true,
	"no api key":  true,
}

// IsUsableValue reports whether a field value is real data rather than an
// empty string or a sentinel placeholder.
func IsUsableValue(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	return !fieldSentinels[strings.ToLower(v)]
}

// IsUsableDomain reports whether a domain value qualifies a record as verified.
func IsUsableDomain(domain string) bool {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return false
	}
	lower := strings.ToLower(domain)
	return !fieldSentinels[lower] && !domainSentinels[lower]
}

// NoDataSource is the source label for a record no provider contributed to.
const NoDataSource = "No data found"
