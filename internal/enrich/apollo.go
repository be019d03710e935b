package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/model"
	"github.com/sells-group/prospector/internal/validate"
	"github.com/sells-group/prospector/pkg/apollo"
)

// ApolloAdapter queries Apollo's organization graph: direct enrich by domain
// when one is known (exact data), falling back to search by name.
type ApolloAdapter struct {
	client apollo.Client
}

// NewApolloAdapter creates the Apollo enrichment adapter.
func NewApolloAdapter(client apollo.Client) *ApolloAdapter {
	return &ApolloAdapter{client: client}
}

func (a *ApolloAdapter) Name() string { return "apollo" }

func (a *ApolloAdapter) Fetch(ctx context.Context, companyName, knownDomain string) model.PartialCompanyRecord {
	log := zap.L().With(zap.String("adapter", a.Name()), zap.String("company", companyName))

	if knownDomain != "" {
		org, err := a.client.EnrichOrganization(ctx, validate.NormalizeDomain(knownDomain))
		if err != nil {
			log.Warn("enrich: organization enrich failed", zap.Error(err))
		} else if org != nil {
			if partial := orgToPartial(org); !partial.IsEmpty() {
				return partial
			}
		}
	}

	orgs, err := a.client.SearchOrganizations(ctx, companyName)
	if err != nil {
		log.Warn("enrich: organization search failed", zap.Error(err))
		return model.PartialCompanyRecord{}
	}
	if len(orgs) == 0 {
		log.Debug("enrich: no organizations matched")
		return model.PartialCompanyRecord{}
	}

	// Prefer the organization whose domain exactly matches the known one;
	// without a known domain (or an exact match), accept the top result.
	pick := &orgs[0]
	if knownDomain != "" {
		want := validate.NormalizeDomain(knownDomain)
		for i := range orgs {
			if validate.NormalizeDomain(orgs[i].Domain) == want {
				pick = &orgs[i]
				break
			}
		}
	}

	return orgToPartial(pick)
}

// orgToPartial maps an Apollo organization to a sparse partial.
func orgToPartial(org *apollo.Organization) model.PartialCompanyRecord {
	partial := model.PartialCompanyRecord{
		Geography: usable(org.Location),
		Revenue:   normalizeRevenue(usable(org.AnnualRevenue)),
		Employees: employeeCountString(org.EmployeeCount),
	}

	domain := org.Domain
	if domain == "" {
		domain = org.WebsiteURL
	}
	if d := validate.NormalizeDomain(usable(domain)); validate.ValidDomainFormat(d) {
		partial.Domain = d
	}
	if canonical, ok := validate.CanonicalLinkedInURL(org.LinkedInURL); ok {
		partial.LinkedInURL = canonical
	}

	return partial
}
