// AngelaMos | 2026
// dto.go

package report

import (
	"time"
)

// CreateReportInput carries the non-file fields of the multipart submission.
// The attachment arrives separately as a media.File.
type CreateReportInput struct {
	Title              string   `json:"title"       validate:"required,min=3,max=200"`
	Description        string   `json:"description" validate:"required,min=10,max=1000"`
	Address            string   `json:"address"     validate:"required,max=500"`
	Latitude           float64  `json:"latitude"    validate:"latitude"`
	Longitude          float64  `json:"longitude"   validate:"longitude"`
	City               string   `json:"city"        validate:"max=100"`
	Province           string   `json:"province"    validate:"max=100"`
	UseCurrentLocation bool     `json:"use_current_location"`
	Tags               []string `json:"tags"        validate:"max=10,dive,max=50"`
}

type VerificationInput struct {
	Notes string `json:"verification_notes" validate:"max=1000"`
}

type CommentInput struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}

type FlagInput struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

type ListReportsParams struct {
	Status   Status
	Verified *bool
	Page     int
	PageSize int
}

func (p *ListReportsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListReportsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type MediaResponse struct {
	Kind     string `json:"kind"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type LocationResponse struct {
	UseCurrentLocation bool    `json:"use_current_location"`
	Address            string  `json:"address"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	City               string  `json:"city,omitempty"`
	Province           string  `json:"province,omitempty"`
}

type AirQualityResponse struct {
	AQI         *int       `json:"aqi,omitempty"`
	PM25        *float64   `json:"pm2_5,omitempty"`
	PM10        *float64   `json:"pm10,omitempty"`
	Temperature *float64   `json:"temperature,omitempty"`
	Humidity    *float64   `json:"humidity,omitempty"`
	RecordedAt  *time.Time `json:"recorded_at,omitempty"`
}

type ReportResponse struct {
	ID                string              `json:"id"`
	UserID            string              `json:"user_id"`
	Media             MediaResponse       `json:"media"`
	Location          LocationResponse    `json:"location"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Status            string              `json:"status"`
	Verified          bool                `json:"verified"`
	VerifiedBy        *string             `json:"verified_by,omitempty"`
	VerifiedAt        *time.Time          `json:"verified_at,omitempty"`
	VerificationNotes *string             `json:"verification_notes,omitempty"`
	AirQuality        *AirQualityResponse `json:"air_quality,omitempty"`
	Visibility        *string             `json:"visibility,omitempty"`
	Severity          *string             `json:"severity,omitempty"`
	Views             int                 `json:"views"`
	Likes             int                 `json:"likes"`
	Tags              []string            `json:"tags"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func ToReportResponse(r *Report) ReportResponse {
	resp := ReportResponse{
		ID:     r.ID,
		UserID: r.UserID,
		Media: MediaResponse{
			Kind:     r.MediaKind,
			URL:      r.MediaURL,
			Filename: r.MediaFilename,
			Size:     r.MediaSize,
			MimeType: r.MediaMimeType,
		},
		Location: LocationResponse{
			UseCurrentLocation: r.UseCurrentLocation,
			Address:            r.Address,
			Latitude:           r.Latitude,
			Longitude:          r.Longitude,
			City:               r.City,
			Province:           r.Province,
		},
		Title:             r.Title,
		Description:       r.Description,
		Status:            r.Status.String(),
		Verified:          r.Verified,
		VerifiedBy:        r.VerifiedBy,
		VerifiedAt:        r.VerifiedAt,
		VerificationNotes: r.VerificationNotes,
		Visibility:        r.Visibility,
		Severity:          r.Severity,
		Views:             r.Views,
		Likes:             r.Likes,
		Tags:              r.Tags,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}

	if resp.Tags == nil {
		resp.Tags = []string{}
	}

	if r.AQI != nil || r.PM25 != nil || r.PM10 != nil ||
		r.Temperature != nil || r.Humidity != nil {
		resp.AirQuality = &AirQualityResponse{
			AQI:         r.AQI,
			PM25:        r.PM25,
			PM10:        r.PM10,
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			RecordedAt:  r.RecordedAt,
		}
	}

	return resp
}

func ToReportResponses(reports []Report) []ReportResponse {
	out := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, ToReportResponse(&reports[i]))
	}
	return out
}

type CommentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func ToCommentResponse(c *Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}
