// Package contacts resolves verified people at a company, ranked by title
// seniority.
package contacts

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/model"
	"github.com/sells-group/prospector/internal/validate"
	"github.com/sells-group/prospector/pkg/apollo"
	"github.com/sells-group/prospector/pkg/enrichlayer"
)

const (
	defaultLimit           = 5
	defaultVerifyThreshold = 0.5
	highConfidenceScore    = 0.9
)

var (
	namePartPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z\- ]*$`)
	titlePattern    = regexp.MustCompile(`^[A-Za-z ,&\-]+$`)
)

// Resolver finds contacts via Apollo people search and cross-checks them
// against EnrichLayer's person graph.
type Resolver struct {
	people          apollo.Client
	verifier        enrichlayer.Client
	limit           int
	verifyThreshold float64
}

// NewResolver creates a Resolver. verifier may be nil, in which case contacts
// keep medium confidence without a second-pass check.
func NewResolver(people apollo.Client, verifier enrichlayer.Client, limit int, verifyThreshold float64) *Resolver {
	if limit <= 0 {
		limit = defaultLimit
	}
	if verifyThreshold <= 0 {
		verifyThreshold = defaultVerifyThreshold
	}
	return &Resolver{people: people, verifier: verifier, limit: limit, verifyThreshold: verifyThreshold}
}

// FindContacts returns up to the configured top-N contacts at the company,
// ordered by title seniority (stable on ties). It never fails; provider
// errors yield an empty list.
func (r *Resolver) FindContacts(ctx context.Context, companyName, domain string) []model.ContactPerson {
	if r.people == nil || domain == "" {
		return nil
	}

	log := zap.L().With(zap.String("company", companyName), zap.String("domain", domain))

	people, err := r.people.SearchPeople(ctx, apollo.PeopleSearchRequest{
		OrganizationDomain: validate.NormalizeDomain(domain),
		PerPage:            25,
	})
	if err != nil {
		log.Warn("contacts: people search failed", zap.Error(err))
		return nil
	}

	var candidates []apollo.Person
	for _, p := range people {
		if passesGate(p, domain) {
			candidates = append(candidates, p)
		}
	}

	// Seniority sort is stable so equally-ranked people keep provider order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return TitleSeniority(candidates[i].Title) > TitleSeniority(candidates[j].Title)
	})
	if len(candidates) > r.limit {
		candidates = candidates[:r.limit]
	}

	var out []model.ContactPerson
	for _, p := range candidates {
		contact := model.ContactPerson{
			Name:               strings.TrimSpace(p.FirstName + " " + p.LastName),
			Title:              p.Title,
			Email:              p.Email,
			LinkedInURL:        p.LinkedInURL,
			Confidence:         model.ConfidenceMedium,
			VerificationSource: "apollo",
		}

		keep, verified := r.verify(ctx, &contact, domain)
		if !keep {
			log.Debug("contacts: dropped on failed verification", zap.String("name", contact.Name))
			continue
		}
		if verified {
			contact.Confidence = model.ConfidenceHigh
		}
		out = append(out, contact)
	}

	return out
}

// passesGate applies the validity gate; every condition is required.
func passesGate(p apollo.Person, domain string) bool {
	if p.EmploymentStatus != "current" {
		return false
	}
	if !validNamePart(p.FirstName) || !validNamePart(p.LastName) {
		return false
	}
	if len(p.Title) <= 2 || !titlePattern.MatchString(p.Title) {
		return false
	}
	if p.EmailStatus != "verified" {
		return false
	}
	return validate.ValidContactEmail(p.Email, domain)
}

func validNamePart(s string) bool {
	return len(s) > 1 && namePartPattern.MatchString(s)
}

// verify cross-checks the contact against the second provider. Returns
// keep=false when the match score falls below the threshold; verified=true
// upgrades confidence to high. A missing or failing verifier keeps the
// contact at medium.
func (r *Resolver) verify(ctx context.Context, contact *model.ContactPerson, domain string) (keep, verified bool) {
	if r.verifier == nil {
		return true, false
	}

	match, err := r.verifier.VerifyPerson(ctx, enrichlayer.PersonRequest{
		Name:          contact.Name,
		Email:         contact.Email,
		CompanyDomain: validate.NormalizeDomain(domain),
	})
	if err != nil {
		zap.L().Warn("contacts: verification call failed", zap.Error(err))
		return true, false
	}

	if match.MatchScore < r.verifyThreshold {
		return false, false
	}
	if match.Source != "" {
		contact.VerificationSource = "apollo, " + match.Source
	}
	return true, match.MatchScore > highConfidenceScore
}

// seniorityRanks maps title markers to scores, checked in order so "vice
// president" does not rank as president.
var seniorityRanks = []struct {
	marker string
	score  int
}{
	{"chief executive", 100},
	{"ceo", 100},
	{"cto", 90},
	{"cfo", 90},
	{"coo", 90},
	{"vice president", 70},
	{"vp", 70},
	{"president", 80},
	{"head", 60},
	{"director", 50},
}

// TitleSeniority scores a job title for ranking.
func TitleSeniority(title string) int {
	lower := strings.ToLower(title)
	for _, r := range seniorityRanks {
		if strings.Contains(lower, r.marker) {
			return r.score
		}
	}
	return 0
}
