// AngelaMos | 2026
// service.go

package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pakair-dev/pakair-api/internal/core"
	"github.com/pakair-dev/pakair-api/internal/media"
	"github.com/pakair-dev/pakair-api/internal/user"
)

// Actor identifies the caller of a service operation. Role rules are
// enforced here so they hold regardless of how the call arrived.
type Actor struct {
	ID   string
	Role user.Role
}

type Service struct {
	repo     Repository
	uploader media.Uploader
}

func NewService(repo Repository, uploader media.Uploader) *Service {
	return &Service{repo: repo, uploader: uploader}
}

// Create submits a new report. Only citizens may submit; the attachment is
// validated and uploaded before anything is persisted, so a client
// disconnect mid-upload leaves no partial report row. If the insert fails
// after the upload succeeded the remote object is orphaned; that is logged
// and accepted, never retried.
func (s *Service) Create(
	ctx context.Context,
	actor Actor,
	input CreateReportInput,
	file media.File,
) (*Report, error) {
	if actor.Role != user.RoleCitizen {
		return nil, core.ForbiddenError("only citizens can submit reports")
	}

	if err := validateCoordinates(input.Latitude, input.Longitude); err != nil {
		return nil, err
	}

	if _, err := media.ValidateFile(file); err != nil {
		return nil, mapMediaError(err)
	}

	asset, err := s.uploader.Upload(ctx, file)
	if err != nil {
		return nil, mapMediaError(err)
	}

	report := &Report{
		ID:                 uuid.New().String(),
		UserID:             actor.ID,
		MediaKind:          string(asset.Kind),
		MediaURL:           asset.URL,
		MediaPublicID:      asset.PublicID,
		MediaFilename:      asset.Filename,
		MediaSize:          file.Size,
		MediaMimeType:      file.ContentType,
		UseCurrentLocation: input.UseCurrentLocation,
		Address:            input.Address,
		Latitude:           input.Latitude,
		Longitude:          input.Longitude,
		City:               input.City,
		Province:           input.Province,
		Title:              input.Title,
		Description:        input.Description,
		Status:             StatusPending,
		Verified:           false,
		Tags:               input.Tags,
	}

	if err := s.repo.Create(ctx, report); err != nil {
		slog.Error("report persist failed after upload, object orphaned",
			"public_id", asset.PublicID,
			"error", err,
		)
		return nil, err
	}

	return report, nil
}

func (s *Service) List(
	ctx context.Context,
	params ListReportsParams,
) ([]Report, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Report, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, core.InvalidIDError()
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Verify(
	ctx context.Context,
	actor Actor,
	id string,
	notes string,
) (*Report, error) {
	return s.transition(ctx, actor, id, true, StatusVerified, notes)
}

func (s *Service) Reject(
	ctx context.Context,
	actor Actor,
	id string,
	notes string,
) (*Report, error) {
	return s.transition(ctx, actor, id, false, StatusRejected, notes)
}

func (s *Service) transition(
	ctx context.Context,
	actor Actor,
	id string,
	verified bool,
	status Status,
	notes string,
) (*Report, error) {
	if actor.Role != user.RoleOfficial {
		return nil, core.ForbiddenError("only officials can review reports")
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, core.InvalidIDError()
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}

	return s.repo.SetVerification(ctx, id, verified, status, actor.ID, notesPtr)
}

func (s *Service) Delete(ctx context.Context, actor Actor, id string) error {
	if actor.Role != user.RoleOfficial {
		return core.ForbiddenError("only officials can delete reports")
	}

	if _, err := uuid.Parse(id); err != nil {
		return core.InvalidIDError()
	}

	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) AddComment(
	ctx context.Context,
	actor Actor,
	reportID string,
	input CommentInput,
) (*Comment, error) {
	if _, err := s.GetByID(ctx, reportID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReportID: reportID,
		UserID:   actor.ID,
		Text:     input.Text,
	}

	if err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *Service) ListComments(
	ctx context.Context,
	reportID string,
) ([]Comment, error) {
	if _, err := s.GetByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, reportID)
}

func (s *Service) AddFlag(
	ctx context.Context,
	actor Actor,
	reportID string,
	input FlagInput,
) (*Flag, error) {
	if _, err := s.GetByID(ctx, reportID); err != nil {
		return nil, err
	}

	flag := &Flag{
		ReportID: reportID,
		UserID:   actor.ID,
		Reason:   input.Reason,
	}

	if err := s.repo.AddFlag(ctx, flag); err != nil {
		return nil, err
	}

	return flag, nil
}

func (s *Service) Like(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return core.InvalidIDError()
	}
	return s.repo.IncrementLikes(ctx, id)
}

func (s *Service) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *Service) RecordView(ctx context.Context, id string) {
	// View counting is best-effort; a failed increment never surfaces.
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		slog.Debug("view increment failed", "report_id", id, "error", err)
	}
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return core.ValidationError(
			fmt.Sprintf("latitude %v is out of range [-90, 90]", lat),
		)
	}
	if lng < -180 || lng > 180 {
		return core.ValidationError(
			fmt.Sprintf("longitude %v is out of range [-180, 180]", lng),
		)
	}
	return nil
}

func mapMediaError(err error) error {
	switch {
	case core.IsAppError(err):
		return err
	case errors.Is(err, core.ErrPayloadTooLarge):
		return core.PayloadTooLargeError("media file exceeds the 20 MiB limit")
	case errors.Is(err, core.ErrUnsupportedMedia):
		return core.UnsupportedMediaError(
			"only image and video files are accepted",
		)
	case errors.Is(err, core.ErrUpstream):
		return core.UpstreamError("media storage is unavailable")
	default:
		return err
	}
}
