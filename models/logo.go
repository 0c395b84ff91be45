package models

// LogoPresignRequest represents the request body for POST /api/logo/presign
type LogoPresignRequest struct {
	Email       string `json:"email"`
	LogoID      string `json:"logoId"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// LogoPresignResponse carries the upload URL and the ways to read the logo back
type LogoPresignResponse struct {
	Key       string `json:"key"`
	URL       string `json:"url"`       // presigned PUT
	PublicURL string `json:"publicUrl"` // bucket URL, only readable for public buckets
	GetURL    string `json:"getUrl"`    // presigned GET
}

// CustomerLogo is the stored logo picked for a customer's company
type CustomerLogo struct {
	HasLogo  bool   `json:"hasLogo"`
	LogoURL  string `json:"logoUrl,omitempty"`
	Key      string `json:"key,omitempty"`
	Filename string `json:"filename,omitempty"`
}
