package apimodels

import "github.com/Rarebox/kalorify-ai/internal/locale"

type Status string

const (
	// StatusOK carries a report.
	StatusOK Status = "ok"
	// StatusEmpty means the service answered but detected nothing.
	StatusEmpty Status = "empty"
	// StatusError means the analysis failed; Error holds the message to show.
	StatusError Status = "error"
)

type AnalysisResponse struct {
	// Unique id of this analysis
	ID string `json:"id"`

	Status Status `json:"status"`

	// Localized report, only set when Status is ok
	Report *locale.Report `json:"report,omitempty"`

	// User-facing message for the empty and error states
	Message string `json:"message,omitempty"`

	Metadata AnalysisMetadata `json:"metadata"`
}

type AnalysisMetadata struct {
	// Time taken for analysis
	Duration string `json:"duration"`

	// Backend that produced the analysis
	Backend string `json:"backend"`

	// Display language of the report
	Language string `json:"language"`
}
