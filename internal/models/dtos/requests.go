package dtos

// SubmitReportRequest is the submission payload. Image is base64 in JSON;
// contact fields are plaintext here and encrypted before they leave the
// process.
type SubmitReportRequest struct {
	DisasterType string  `json:"disasterType"`
	Severity     int     `json:"severity"`
	Comments     string  `json:"comments"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ContactName  string  `json:"contactName,omitempty"`
	PhoneNumber  string  `json:"phoneNumber,omitempty"`
	ImageData    []byte  `json:"imageData,omitempty"`
	ImageMime    string  `json:"imageMime,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
