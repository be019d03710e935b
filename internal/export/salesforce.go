package export

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/model"
	"github.com/sells-group/prospector/pkg/salesforce"
)

// SalesforceExporter inserts verified records as Account objects.
type SalesforceExporter struct {
	client salesforce.Client
}

func NewSalesforceExporter(client salesforce.Client) *SalesforceExporter {
	return &SalesforceExporter{client: client}
}

// Export inserts all verified records in one collection call and returns the
// number inserted. Records still not_found after the merge carry no usable
// fields and are skipped.
func (e *SalesforceExporter) Export(ctx context.Context, records []model.CompanyRecord) (int, error) {
	var accounts []map[string]any
	for _, r := range records {
		if r.Status != model.StatusVerified {
			continue
		}
		accounts = append(accounts, accountFields(r))
	}
	if len(accounts) == 0 {
		return 0, nil
	}

	results, err := e.client.InsertCollection(ctx, "Account", accounts)
	if err != nil {
		return 0, eris.Wrap(err, "export: insert salesforce accounts")
	}

	inserted := 0
	for _, res := range results {
		if res.Success {
			inserted++
			continue
		}
		zap.L().Warn("export: salesforce insert rejected",
			zap.String("id", res.ID),
			zap.Strings("errors", res.Errors),
		)
	}
	return inserted, nil
}

func accountFields(r model.CompanyRecord) map[string]any {
	fields := map[string]any{
		"Name": r.CompanyName,
	}
	if r.Domain != "" {
		fields["Website"] = "https://" + r.Domain
	}
	if r.Geography != "" {
		fields["BillingCity"] = r.Geography
	}
	if r.Revenue != "" {
		fields["Description"] = "Revenue: " + r.Revenue
	}
	if r.Employees != "" {
		fields["NumberOfEmployees__c"] = r.Employees
	}
	if r.LinkedInURL != "" {
		fields["LinkedIn__c"] = r.LinkedInURL
	}
	return fields
}
