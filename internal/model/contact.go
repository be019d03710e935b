package model

// ContactConfidence grades how strongly a contact was corroborated.
type ContactConfidence string

const (
	ConfidenceHigh   ContactConfidence = "high"
	ConfidenceMedium ContactConfidence = "medium"
	ConfidenceLow    ContactConfidence = "low"
)

// ContactPerson is one verified contact at a resolved company.
//
// A contact is only valid when the email's domain part equals the company
// domain exactly (case-insensitive), the name has at least two tokens, and
// the title is at least three characters.
type ContactPerson struct {
	Name               string            `json:"name"`
	Title              string            `json:"title"`
	Email              string            `json:"email"`
	LinkedInURL        string            `json:"linkedinUrl"`
	Confidence         ContactConfidence `json:"confidence"`
	VerificationSource string            `json:"verificationSource"`
}
