// AngelaMos | 2026
// repository.go

package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pakair-dev/pakair-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, report *Report) error
	GetByID(ctx context.Context, id string) (*Report, error)
	List(ctx context.Context, params ListReportsParams) ([]Report, int, error)
	SetVerification(
		ctx context.Context,
		id string,
		verified bool,
		status Status,
		verifierID string,
		notes *string,
	) (*Report, error)
	SoftDelete(ctx context.Context, id string) error
	AddComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, reportID string) ([]Comment, error)
	AddFlag(ctx context.Context, flag *Flag) error
	IncrementViews(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const reportColumns = `
	id, user_id,
	media_kind, media_url, media_public_id, media_filename, media_size,
	media_mime_type,
	use_current_location, address, latitude, longitude, city, province,
	title, description,
	status, verified, verified_by, verified_at, verification_notes,
	aqi, pm25, pm10, temperature, humidity, recorded_at,
	visibility, severity, views, likes, tags,
	created_at, updated_at, deleted_at`

func (r *repository) Create(ctx context.Context, report *Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	query := `
		INSERT INTO reports (
			id, user_id,
			media_kind, media_url, media_public_id, media_filename,
			media_size, media_mime_type,
			use_current_location, address, latitude, longitude, city, province,
			title, description, status, verified, tags
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19
		)
		RETURNING created_at, updated_at, views, likes`

	err := r.db.GetContext(ctx, report, query,
		report.ID,
		report.UserID,
		report.MediaKind,
		report.MediaURL,
		report.MediaPublicID,
		report.MediaFilename,
		report.MediaSize,
		report.MediaMimeType,
		report.UseCurrentLocation,
		report.Address,
		report.Latitude,
		report.Longitude,
		report.City,
		report.Province,
		report.Title,
		report.Description,
		report.Status,
		report.Verified,
		report.Tags,
	)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports
		WHERE id = $1 AND deleted_at IS NULL`

	var report Report
	err := r.db.GetContext(ctx, &report, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get report: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	return &report, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListReportsParams,
) ([]Report, int, error) {
	params.Normalize()

	where := "deleted_at IS NULL"
	args := []any{}
	argIdx := 1

	if params.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, params.Status)
		argIdx++
	}

	if params.Verified != nil {
		where += fmt.Sprintf(" AND verified = $%d", argIdx)
		args = append(args, *params.Verified)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM reports WHERE " + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+reportColumns+`
		FROM reports
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var reports []Report
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}

	return reports, total, nil
}

// SetVerification writes the whole verification block in one row update.
// Re-verification overwrites the previous verifier and timestamp.
func (r *repository) SetVerification(
	ctx context.Context,
	id string,
	verified bool,
	status Status,
	verifierID string,
	notes *string,
) (*Report, error) {
	query := `
		UPDATE reports
		SET verified = $2, status = $3, verified_by = $4,
		    verified_at = $5, verification_notes = $6, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + reportColumns

	var report Report
	err := r.db.GetContext(ctx, &report, query,
		id,
		verified,
		status,
		verifierID,
		time.Now().UTC(),
		notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("set verification: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("set verification: %w", err)
	}

	return &report, nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE reports
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete report: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) AddComment(
	ctx context.Context,
	comment *Comment,
) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}

	query := `
		INSERT INTO report_comments (id, report_id, user_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &comment.CreatedAt, query,
		comment.ID,
		comment.ReportID,
		comment.UserID,
		comment.Text,
	)
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}

	return nil
}

func (r *repository) ListComments(
	ctx context.Context,
	reportID string,
) ([]Comment, error) {
	query := `
		SELECT id, report_id, user_id, text, created_at
		FROM report_comments
		WHERE report_id = $1
		ORDER BY created_at ASC`

	var comments []Comment
	if err := r.db.SelectContext(ctx, &comments, query, reportID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return comments, nil
}

func (r *repository) AddFlag(ctx context.Context, flag *Flag) error {
	if flag.ID == "" {
		flag.ID = uuid.New().String()
	}

	query := `
		INSERT INTO report_flags (id, report_id, user_id, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &flag.CreatedAt, query,
		flag.ID,
		flag.ReportID,
		flag.UserID,
		flag.Reason,
	)
	if err != nil {
		return fmt.Errorf("add flag: %w", err)
	}

	return nil
}

func (r *repository) IncrementViews(ctx context.Context, id string) error {
	query := `
		UPDATE reports
		SET views = views + 1
		WHERE id = $1 AND deleted_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}

	return nil
}

func (r *repository) CountByStatus(
	ctx context.Context,
) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*) AS total
		FROM reports
		WHERE deleted_at IS NULL
		GROUP BY status`

	var rows []struct {
		Status string `db:"status"`
		Total  int    `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count reports by status: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}

	return counts, nil
}

func (r *repository) IncrementLikes(ctx context.Context, id string) error {
	query := `
		UPDATE reports
		SET likes = likes + 1
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment likes: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment likes: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("increment likes: %w", core.ErrNotFound)
	}

	return nil
}
