// Package export writes merged company records to external targets: CSV,
// XLSX, a Notion lead database, and Salesforce accounts.
package export

import "github.com/sells-group/prospector/internal/model"

var recordHeaders = []string{
	"Company Name",
	"Domain",
	"Geography",
	"Revenue",
	"Employees",
	"LinkedIn",
	"Source",
	"Status",
}

func recordRow(r model.CompanyRecord) []string {
	return []string{
		r.CompanyName,
		r.Domain,
		r.Geography,
		r.Revenue,
		r.Employees,
		r.LinkedInURL,
		r.Source,
		string(r.Status),
	}
}
