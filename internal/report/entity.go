// AngelaMos | 2026
// entity.go

package report

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Status is the report lifecycle state. Pending moves to verified or
// rejected; under_review and archived are valid intermediate states for
// workflow tooling.
type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusVerified    Status = "verified"
	StatusRejected    Status = "rejected"
	StatusArchived    Status = "archived"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusUnderReview, StatusVerified,
		StatusRejected, StatusArchived:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

func (s Status) String() string {
	return string(s)
}

// StringSlice stores tags as a JSONB array.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal string slice: %w", err)
	}
	return string(b), nil
}

func (s *StringSlice) Scan(src any) error {
	if src == nil {
		*s = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan string slice: unsupported type %T", src)
	}

	return json.Unmarshal(data, s)
}

type Report struct {
	ID     string `db:"id"`
	UserID string `db:"user_id"`

	MediaKind     string `db:"media_kind"`
	MediaURL      string `db:"media_url"`
	MediaPublicID string `db:"media_public_id"`
	MediaFilename string `db:"media_filename"`
	MediaSize     int64  `db:"media_size"`
	MediaMimeType string `db:"media_mime_type"`

	UseCurrentLocation bool    `db:"use_current_location"`
	Address            string  `db:"address"`
	Latitude           float64 `db:"latitude"`
	Longitude          float64 `db:"longitude"`
	City               string  `db:"city"`
	Province           string  `db:"province"`

	Title       string `db:"title"`
	Description string `db:"description"`

	Status            Status     `db:"status"`
	Verified          bool       `db:"verified"`
	VerifiedBy        *string    `db:"verified_by"`
	VerifiedAt        *time.Time `db:"verified_at"`
	VerificationNotes *string    `db:"verification_notes"`

	AQI         *int       `db:"aqi"`
	PM25        *float64   `db:"pm25"`
	PM10        *float64   `db:"pm10"`
	Temperature *float64   `db:"temperature"`
	Humidity    *float64   `db:"humidity"`
	RecordedAt  *time.Time `db:"recorded_at"`

	Visibility *string `db:"visibility"`
	Severity   *string `db:"severity"`

	Views int         `db:"views"`
	Likes int         `db:"likes"`
	Tags  StringSlice `db:"tags"`

	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func (r *Report) IsDeleted() bool {
	return r.DeletedAt != nil
}

type Comment struct {
	ID        string    `db:"id"`
	ReportID  string    `db:"report_id"`
	UserID    string    `db:"user_id"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
}

type Flag struct {
	ID        string    `db:"id"`
	ReportID  string    `db:"report_id"`
	UserID    string    `db:"user_id"`
	Reason    string    `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}
