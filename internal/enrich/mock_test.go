package enrich

import (
	"context"

	"github.com/sells-group/prospector/pkg/anthropic"
	"github.com/sells-group/prospector/pkg/apollo"
	"github.com/sells-group/prospector/pkg/enrichlayer"
	"github.com/sells-group/prospector/pkg/exa"
	"github.com/sells-group/prospector/pkg/perplexity"
)

type fakeExa struct {
	resp *exa.SearchResponse
	err  error
}

func (f *fakeExa) Search(ctx context.Context, req exa.SearchRequest) (*exa.SearchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type fakeLLM struct {
	text string
	err  error
}

func (f *fakeLLM) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.text}},
	}, nil
}

type fakeCompletion struct {
	text string
	err  error
}

func (f *fakeCompletion) ChatCompletion(ctx context.Context, req perplexity.ChatCompletionRequest) (*perplexity.ChatCompletionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &perplexity.ChatCompletionResponse{
		Choices: []perplexity.Choice{{Message: perplexity.Message{Role: "assistant", Content: f.text}}},
	}, nil
}

type fakeApollo struct {
	enriched  *apollo.Organization
	enrichErr error
	orgs      []apollo.Organization
	searchErr error
}

func (f *fakeApollo) EnrichOrganization(ctx context.Context, domain string) (*apollo.Organization, error) {
	return f.enriched, f.enrichErr
}

func (f *fakeApollo) SearchOrganizations(ctx context.Context, name string) ([]apollo.Organization, error) {
	return f.orgs, f.searchErr
}

func (f *fakeApollo) SearchPeople(ctx context.Context, req apollo.PeopleSearchRequest) ([]apollo.Person, error) {
	return nil, nil
}

type fakeEnrichLayer struct {
	company *enrichlayer.Company
	err     error
}

func (f *fakeEnrichLayer) EnrichCompany(ctx context.Context, req enrichlayer.CompanyRequest) (*enrichlayer.Company, error) {
	return f.company, f.err
}

func (f *fakeEnrichLayer) VerifyPerson(ctx context.Context, req enrichlayer.PersonRequest) (*enrichlayer.PersonMatch, error) {
	return nil, nil
}
