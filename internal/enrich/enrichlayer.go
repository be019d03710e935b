package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/model"
	"github.com/sells-group/prospector/internal/validate"
	"github.com/sells-group/prospector/pkg/enrichlayer"
)

// EnrichLayerAdapter queries the EnrichLayer company graph by name and, when
// known, domain.
type EnrichLayerAdapter struct {
	client enrichlayer.Client
}

// NewEnrichLayerAdapter creates the EnrichLayer enrichment adapter.
func NewEnrichLayerAdapter(client enrichlayer.Client) *EnrichLayerAdapter {
	return &EnrichLayerAdapter{client: client}
}

func (a *EnrichLayerAdapter) Name() string { return "enrichlayer" }

func (a *EnrichLayerAdapter) Fetch(ctx context.Context, companyName, knownDomain string) model.PartialCompanyRecord {
	log := zap.L().With(zap.String("adapter", a.Name()), zap.String("company", companyName))

	company, err := a.client.EnrichCompany(ctx, enrichlayer.CompanyRequest{
		CompanyName: companyName,
		Domain:      validate.NormalizeDomain(knownDomain),
	})
	if err != nil {
		log.Warn("enrich: company enrich failed", zap.Error(err))
		return model.PartialCompanyRecord{}
	}
	if company == nil {
		log.Debug("enrich: no company matched")
		return model.PartialCompanyRecord{}
	}

	partial := model.PartialCompanyRecord{
		Geography: usable(company.HeadquartersLocation),
		Revenue:   normalizeRevenue(usable(company.AnnualRevenue)),
		Employees: usable(company.EmployeeCount),
	}
	if d := validate.NormalizeDomain(usable(company.Domain)); validate.ValidDomainFormat(d) {
		partial.Domain = d
	}
	if canonical, ok := validate.CanonicalLinkedInURL(company.LinkedInURL); ok {
		partial.LinkedInURL = canonical
	}

	return partial
}
