package models

import (
	"fmt"
	"net/mail"
	"net/url"
)

// Citizen report types.
const (
	ReportOverflow      = "overflow"
	ReportDamagedBin    = "damaged_bin"
	ReportIllegalDump   = "illegal_dumping"
	ReportNewBinRequest = "new_bin_request"
)

// Citizen report statuses. Reports open as "open"; operators move them
// to in_review, resolved, or rejected from the dashboard.
const (
	ReportStatusOpen     = "open"
	ReportStatusInReview = "in_review"
	ReportStatusResolved = "resolved"
	ReportStatusRejected = "rejected"
)

// CitizenReport is a resident-submitted issue tied to a location rather
// than a specific bin: overflow, damage, illegal dumping, or a request
// for a new bin.
type CitizenReport struct {
	ID            string  `json:"id" db:"id"`
	ReporterID    *string `json:"reporterId,omitempty" db:"reporter_id"`
	Type          string  `json:"type" db:"type"`
	Description   string  `json:"description" db:"description"`
	Latitude      float64 `json:"latitude" db:"latitude"`
	Longitude     float64 `json:"longitude" db:"longitude"`
	PhotoURL      *string `json:"photoUrl,omitempty" db:"photo_url"`
	ReporterName  *string `json:"reporterName,omitempty" db:"reporter_name"`
	ReporterEmail *string `json:"reporterEmail,omitempty" db:"reporter_email"`
	Status        string  `json:"status" db:"status"`
	CreatedAt     int64   `json:"createdAt" db:"created_at"` // Unix timestamp
	UpdatedAt     int64   `json:"updatedAt" db:"updated_at"` // Unix timestamp
}

// CreateReportRequest is the request body for POST /api/v1/reports.
type CreateReportRequest struct {
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	Location      *Location `json:"location"`
	PhotoURL      *string   `json:"photoUrl,omitempty"`
	ReporterName  *string   `json:"reporterName,omitempty"`
	ReporterEmail *string   `json:"reporterEmail,omitempty"`
}

// Validate checks the report payload before anything is persisted.
func (r *CreateReportRequest) Validate() error {
	switch r.Type {
	case ReportOverflow, ReportDamagedBin, ReportIllegalDump, ReportNewBinRequest:
	default:
		return fmt.Errorf("type must be one of overflow, damaged_bin, illegal_dumping, new_bin_request")
	}
	if len(r.Description) < 5 || len(r.Description) > 2000 {
		return fmt.Errorf("description must be between 5 and 2000 characters")
	}
	if r.Location == nil {
		return fmt.Errorf("location is required")
	}
	if !isFinite(r.Location.Lat) || !isFinite(r.Location.Lng) {
		return fmt.Errorf("location must have finite lat and lng")
	}
	if r.PhotoURL != nil {
		parsed, err := url.ParseRequestURI(*r.PhotoURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("photoUrl must be a valid http(s) URL")
		}
	}
	if r.ReporterName != nil && (len(*r.ReporterName) < 2 || len(*r.ReporterName) > 120) {
		return fmt.Errorf("reporterName must be between 2 and 120 characters")
	}
	if r.ReporterEmail != nil {
		if _, err := mail.ParseAddress(*r.ReporterEmail); err != nil {
			return fmt.Errorf("reporterEmail must be a valid email address")
		}
	}
	return nil
}

// ReportStatusRequest is the request body for
// PATCH /api/v1/reports/{reportId}/status.
type ReportStatusRequest struct {
	Status string `json:"status"`
}

func (r *ReportStatusRequest) Validate() error {
	switch r.Status {
	case ReportStatusOpen, ReportStatusInReview, ReportStatusResolved, ReportStatusRejected:
		return nil
	default:
		return fmt.Errorf("status must be one of open, in_review, resolved, rejected")
	}
}
