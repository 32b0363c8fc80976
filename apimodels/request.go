package apimodels

type AnalysisRequest struct {
	// Filename of the uploaded photo as sent by the client
	Filename string `json:"filename"`

	// ContentType of the photo; detected from the bytes when empty
	ContentType string `json:"contentType,omitempty"`

	// Image is the raw photo
	Image []byte `json:"image"`
}
