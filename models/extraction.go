package models

import "encoding/json"

type ExtractPostRequest struct {
	// URL of the product page to extract reviews from.
	URL string `json:"url"`
}

// ExtractPostResponse is the happy-path shape of the extract endpoint.
// The server sends extraction_id as an integer. The flow package decodes
// responses field by field instead, so that string IDs are accepted too.
type ExtractPostResponse struct {
	Status       string      `json:"status,omitempty"`
	ExtractionID json.Number `json:"extraction_id,omitempty"`
	ReviewsCount int         `json:"reviews_count,omitempty"`
	Error        string      `json:"error,omitempty"`
}

// ErrorLoginRequired is the sentinel value of the error field that the
// server uses to report a missing session inside a JSON body.
const ErrorLoginRequired = "login_required"

type ExtractionDeleteResponse struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ExtractionSummaryResponse is the generated summary of an extraction's
// reviews. Error is set instead when no summary could be produced.
type ExtractionSummaryResponse struct {
	Summary       string   `json:"summary,omitempty"`
	Pros          []string `json:"pros,omitempty"`
	Cons          []string `json:"cons,omitempty"`
	AverageRating float64  `json:"average_rating,omitempty"`
	Error         string   `json:"error,omitempty"`
}

type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
)

// Review is one exported review.
type Review struct {
	ID               int64    `json:"id"`
	Author           string   `json:"author"`
	Text             string   `json:"text"`
	Rating           *float64 `json:"rating"`
	Date             string   `json:"date"`
	Advantages       string   `json:"advantages"`
	Disadvantages    string   `json:"disadvantages"`
	PlatformReviewID string   `json:"platform_review_id"`
	CreatedAt        string   `json:"created_at"`
	ProductTitle     string   `json:"product_title"`
}
