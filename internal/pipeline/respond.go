package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospector/internal/classify"
	"github.com/sells-group/prospector/internal/contacts"
	"github.com/sells-group/prospector/internal/model"
	"github.com/sells-group/prospector/pkg/perplexity"
)

// generalSource labels free-text answers produced by the system itself.
const generalSource = "system"

const fallbackAnswer = "No answer is available for this query right now."

// Assembler turns a raw query into exactly one of the three response shapes.
type Assembler struct {
	classifier *classify.Classifier
	orch       *Orchestrator
	completion perplexity.Client
	contacts   *contacts.Resolver
}

// NewAssembler creates an Assembler. completion and contacts may be nil.
func NewAssembler(classifier *classify.Classifier, orch *Orchestrator, completion perplexity.Client, resolver *contacts.Resolver) *Assembler {
	return &Assembler{
		classifier: classifier,
		orch:       orch,
		completion: completion,
		contacts:   resolver,
	}
}

// Respond runs the full request state machine:
//
//	literal name list        → full fan-out       → CompanyResponse
//	company intent + names   → single-provider    → CompanyResponse
//	anything else            → free-text answer   → GeneralResponse
func (a *Assembler) Respond(ctx context.Context, rawQuery string) (model.SearchResponse, model.ClassifiedQuery) {
	classified := a.classifier.Classify(ctx, rawQuery)

	log := zap.L().With(
		zap.String("intent", string(classified.SearchIntent)),
		zap.Float64("confidence", classified.ConfidenceScore),
	)

	// Lexical list detection fired: the lines are literal names.
	if len(classified.CompanyNames) > 0 {
		log.Info("pipeline: literal name list", zap.Int("companies", len(classified.CompanyNames)))
		records := a.orch.Resolve(ctx, classified.CompanyNames)
		return model.NewCompanyResponse(records), classified
	}

	if classified.SearchIntent == model.IntentCompany {
		names := a.classifier.ExtractNames(ctx, rawQuery)
		if len(names) > 0 {
			log.Info("pipeline: extracted names", zap.Int("companies", len(names)))
			records := a.orch.ResolveQuick(ctx, names)
			return model.NewCompanyResponse(records), classified
		}
	}

	log.Info("pipeline: answering as general query")
	return a.generalAnswer(ctx, rawQuery), classified
}

// FindPeople is the person-search path, reachable only through its own
// endpoint. It resolves the company's domain first when the caller did not
// supply one.
func (a *Assembler) FindPeople(ctx context.Context, companyName, domain string) model.SearchResponse {
	if domain == "" {
		records := a.orch.Resolve(ctx, []string{companyName})
		if len(records) > 0 && records[0].Status == model.StatusVerified {
			domain = records[0].Domain
		}
	}

	var people []model.ContactPerson
	if a.contacts != nil {
		people = a.contacts.FindContacts(ctx, companyName, domain)
	}

	confidence := model.ConfidenceLow
	for _, p := range people {
		if p.Confidence == model.ConfidenceHigh {
			confidence = model.ConfidenceHigh
			break
		}
		confidence = model.ConfidenceMedium
	}

	return model.NewPersonResponse(people, confidence)
}

// generalAnswer runs a single free-text completion. A missing or failing
// completion provider degrades to a static message rather than an error;
// partial answers beat none.
func (a *Assembler) generalAnswer(ctx context.Context, rawQuery string) model.SearchResponse {
	if a.completion == nil {
		return model.NewGeneralResponse(fallbackAnswer, generalSource)
	}

	resp, err := a.completion.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Messages: []perplexity.Message{
			{Role: "user", Content: rawQuery},
		},
	})
	if err != nil {
		zap.L().Warn("pipeline: general completion failed", zap.Error(err))
		return model.NewGeneralResponse(fallbackAnswer, generalSource)
	}

	text := strings.TrimSpace(resp.FirstContent())
	if text == "" {
		text = fallbackAnswer
	}
	return model.NewGeneralResponse(text, generalSource)
}
