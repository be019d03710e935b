package model

// ResponseType discriminates the three terminal response shapes.
type ResponseType string

const (
	ResponseGeneral ResponseType = "general"
	ResponseCompany ResponseType = "company"
	ResponsePerson  ResponseType = "person"
)

// SearchResponse is the closed union of the three response shapes. Exactly
// one shape is returned per request.
type SearchResponse interface {
	ResponseType() ResponseType
}

// GeneralResponse answers a general knowledge query with free text.
type GeneralResponse struct {
	Type   ResponseType `json:"type"`
	Text   string       `json:"text"`
	Source string       `json:"source"`
}

// NewGeneralResponse builds a GeneralResponse with its discriminant set.
func NewGeneralResponse(text, source string) *GeneralResponse {
	return &GeneralResponse{Type: ResponseGeneral, Text: text, Source: source}
}

func (r *GeneralResponse) ResponseType() ResponseType { return ResponseGeneral }

// CompanyResponse carries merged company records in input order.
type CompanyResponse struct {
	Type               ResponseType    `json:"type"`
	Results            []CompanyRecord `json:"results"`
	TotalCompanies     int             `json:"totalCompanies"`
	ProcessedCompanies int             `json:"processedCompanies"`
}

// NewCompanyResponse builds a CompanyResponse with its discriminant set.
func NewCompanyResponse(results []CompanyRecord) *CompanyResponse {
	return &CompanyResponse{
		Type:               ResponseCompany,
		Results:            results,
		TotalCompanies:     len(results),
		ProcessedCompanies: len(results),
	}
}

func (r *CompanyResponse) ResponseType() ResponseType { return ResponseCompany }

// PersonResponse carries resolved contacts for a person-intent query.
type PersonResponse struct {
	Type       ResponseType      `json:"type"`
	Results    []ContactPerson   `json:"results"`
	Confidence ContactConfidence `json:"confidence"`
}

// NewPersonResponse builds a PersonResponse with its discriminant set.
func NewPersonResponse(results []ContactPerson, confidence ContactConfidence) *PersonResponse {
	return &PersonResponse{Type: ResponsePerson, Results: results, Confidence: confidence}
}

func (r *PersonResponse) ResponseType() ResponseType { return ResponsePerson }
