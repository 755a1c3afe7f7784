package types

import (
	"time"

	"github.com/stake-plus/medshield/src/claims"
)

// Warning values returned with a soft failure.
const WarningInvalidResults = "invalid_or_empty_results"

// Error codes returned in ErrorResponse.Error.
const (
	ErrNoText        = "No text supplied"
	ErrInvalidJSON   = "invalid JSON body"
	ErrBodyTooLarge  = "request entity too large"
	ErrUpstream      = "upstream_error"
	ErrInternal      = "internal_error"
	ErrRateLimited   = "Too many requests, please try again later."
	ErrReportFailed  = "report_failed"
	ErrClaimRequired = "claim is required"
)

// ScanRequest is the body of POST /scan.
type ScanRequest struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// ScanResponse is returned for every 200 from POST /scan.
type ScanResponse struct {
	Cached  bool            `json:"cached"`
	Results []claims.Record `json:"results"`
	Warning string          `json:"warning,omitempty"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpstreamErrorResponse is returned with 502 when the model endpoint failed.
type UpstreamErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// ReportRequest is the body of POST /report.
type ReportRequest struct {
	Claim   string `json:"claim" binding:"max=2000"`
	Verdict string `json:"verdict" binding:"max=64"`
	URL     string `json:"url" binding:"max=2048"`
	Reason  string `json:"reason" binding:"max=2000"`
}

// ClaimReport is a user report that a classification looks wrong.
type ClaimReport struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Claim     string    `gorm:"type:text;not null" json:"claim"`
	Verdict   string    `gorm:"size:64" json:"verdict"`
	PageURL   string    `gorm:"size:2048" json:"url"`
	Reason    string    `gorm:"type:text" json:"reason"`
	ClientIP  string    `gorm:"size:64" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (ClaimReport) TableName() string { return "claim_reports" }
