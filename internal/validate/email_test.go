package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidContactEmail(t *testing.T) {
	tests := []struct {
		name   string
		email  string
		domain string
		want   bool
	}{
		{"personal address at company", "ceo@acme.com", "acme.com", true},
		{"case insensitive match", "Jane.Doe@ACME.com", "acme.com", true},
		{"company domain with scheme", "jane@acme.com", "https://www.acme.com", true},
		{"subdomain fails exact match", "ceo@sub.acme.com", "acme.com", false},
		{"wrong domain", "ceo@other.com", "acme.com", false},
		{"generic info inbox", "info@acme.com", "acme.com", false},
		{"generic sales inbox", "sales@acme.com", "acme.com", false},
		{"generic support inbox", "Support@acme.com", "acme.com", false},
		{"malformed email", "not-an-email", "acme.com", false},
		{"empty email", "", "acme.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidContactEmail(tt.email, tt.domain))
		})
	}
}
