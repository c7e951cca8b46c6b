// AngelaMos | 2026
// service_test.go

package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pakair-dev/pakair-api/internal/core"
	"github.com/pakair-dev/pakair-api/internal/media"
	"github.com/pakair-dev/pakair-api/internal/user"
)

type fakeRepo struct {
	reports  map[string]*Report
	comments map[string][]Comment
	flags    map[string][]Flag
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		reports:  make(map[string]*Report),
		comments: make(map[string][]Comment),
		flags:    make(map[string][]Flag),
	}
}

func (f *fakeRepo) Create(_ context.Context, report *Report) error {
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	f.reports[report.ID] = report
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Report, error) {
	report, ok := f.reports[id]
	if !ok || report.IsDeleted() {
		return nil, fmt.Errorf("get report: %w", core.ErrNotFound)
	}
	return report, nil
}

func (f *fakeRepo) List(
	_ context.Context,
	params ListReportsParams,
) ([]Report, int, error) {
	params.Normalize()

	matched := make([]Report, 0)
	for _, report := range f.reports {
		if report.IsDeleted() {
			continue
		}
		if params.Status != "" && report.Status != params.Status {
			continue
		}
		if params.Verified != nil && report.Verified != *params.Verified {
			continue
		}
		matched = append(matched, *report)
	}

	total := len(matched)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (f *fakeRepo) SetVerification(
	_ context.Context,
	id string,
	verified bool,
	status Status,
	verifierID string,
	notes *string,
) (*Report, error) {
	report, ok := f.reports[id]
	if !ok || report.IsDeleted() {
		return nil, fmt.Errorf("set verification: %w", core.ErrNotFound)
	}

	now := time.Now()
	report.Verified = verified
	report.Status = status
	report.VerifiedBy = &verifierID
	report.VerifiedAt = &now
	report.VerificationNotes = notes
	report.UpdatedAt = now

	return report, nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id string) error {
	report, ok := f.reports[id]
	if !ok || report.IsDeleted() {
		return fmt.Errorf("delete report: %w", core.ErrNotFound)
	}
	now := time.Now()
	report.DeletedAt = &now
	return nil
}

func (f *fakeRepo) AddComment(_ context.Context, comment *Comment) error {
	comment.ID = uuid.New().String()
	comment.CreatedAt = time.Now()
	f.comments[comment.ReportID] = append(f.comments[comment.ReportID], *comment)
	return nil
}

func (f *fakeRepo) ListComments(
	_ context.Context,
	reportID string,
) ([]Comment, error) {
	return f.comments[reportID], nil
}

func (f *fakeRepo) AddFlag(_ context.Context, flag *Flag) error {
	flag.ID = uuid.New().String()
	flag.CreatedAt = time.Now()
	f.flags[flag.ReportID] = append(f.flags[flag.ReportID], *flag)
	return nil
}

func (f *fakeRepo) IncrementViews(_ context.Context, id string) error {
	if report, ok := f.reports[id]; ok && !report.IsDeleted() {
		report.Views++
	}
	return nil
}

func (f *fakeRepo) IncrementLikes(_ context.Context, id string) error {
	report, ok := f.reports[id]
	if !ok || report.IsDeleted() {
		return fmt.Errorf("increment likes: %w", core.ErrNotFound)
	}
	report.Likes++
	return nil
}

func (f *fakeRepo) CountByStatus(
	_ context.Context,
) (map[string]int, error) {
	counts := make(map[string]int)
	for _, report := range f.reports {
		if !report.IsDeleted() {
			counts[report.Status.String()]++
		}
	}
	return counts, nil
}

type fakeUploader struct {
	calls  int
	failed bool
}

func (f *fakeUploader) Upload(
	_ context.Context,
	file media.File,
) (*media.Asset, error) {
	f.calls++
	if f.failed {
		return nil, fmt.Errorf("upload media: %w", core.ErrUpstream)
	}

	kind, err := media.KindFromContentType(file.ContentType)
	if err != nil {
		return nil, err
	}

	return &media.Asset{
		URL:      "https://media.example.com/" + file.Filename,
		PublicID: "pakair/reports/" + file.Filename,
		Filename: file.Filename,
		Kind:     kind,
	}, nil
}

func (f *fakeUploader) Delete(
	_ context.Context,
	_ string,
	_ media.Kind,
) error {
	return nil
}

var (
	citizen  = Actor{ID: uuid.New().String(), Role: user.RoleCitizen}
	official = Actor{ID: uuid.New().String(), Role: user.RoleOfficial}
)

func validInput() CreateReportInput {
	return CreateReportInput{
		Title:       "Smoke over the river",
		Description: "Thick black smoke rising from the industrial area.",
		Address:     "Ravi Road, Lahore",
		Latitude:    31.5497,
		Longitude:   74.3436,
		City:        "Lahore",
		Province:    "Punjab",
	}
}

func validFile() media.File {
	return media.File{
		Filename:    "smoke.jpg",
		ContentType: "image/jpeg",
		Size:        1024,
		Content:     []byte("fake image bytes"),
	}
}

func newTestService() (*Service, *fakeRepo, *fakeUploader) {
	repo := newFakeRepo()
	uploader := &fakeUploader{}
	return NewService(repo, uploader), repo, uploader
}

func TestCreateDefaultsToPending(t *testing.T) {
	svc, _, _ := newTestService()

	report, err := svc.Create(
		context.Background(),
		citizen,
		validInput(),
		validFile(),
	)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, report.Status)
	assert.False(t, report.Verified)
	assert.Equal(t, citizen.ID, report.UserID)
	assert.Equal(t, "image", report.MediaKind)
	assert.NotEmpty(t, report.MediaURL)
}

func TestCreateForbiddenForOfficial(t *testing.T) {
	svc, _, uploader := newTestService()

	_, err := svc.Create(
		context.Background(),
		official,
		validInput(),
		validFile(),
	)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
	assert.Equal(t, 0, uploader.calls)
}

func TestCreateRejectsBadCoordinates(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
	}{
		{"latitude too high", 91, 74},
		{"latitude too low", -91, 74},
		{"longitude too high", 31, 181},
		{"longitude too low", 31, -181},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, uploader := newTestService()

			input := validInput()
			input.Latitude = tt.lat
			input.Longitude = tt.lng

			_, err := svc.Create(
				context.Background(),
				citizen,
				input,
				validFile(),
			)

			var appErr *core.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			assert.Equal(t, 0, uploader.calls)
		})
	}
}

// An oversized file must be rejected before any upstream call happens.
func TestCreateRejectsOversizedFileBeforeUpload(t *testing.T) {
	svc, _, uploader := newTestService()

	file := validFile()
	file.Size = 25 * 1024 * 1024

	_, err := svc.Create(context.Background(), citizen, validInput(), file)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", appErr.Code)
	assert.Equal(t, 0, uploader.calls)
}

func TestCreateRejectsUnsupportedType(t *testing.T) {
	svc, _, uploader := newTestService()

	file := validFile()
	file.ContentType = "application/pdf"

	_, err := svc.Create(context.Background(), citizen, validInput(), file)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", appErr.Code)
	assert.Equal(t, 0, uploader.calls)
}

func TestCreateSurfacesUpstreamFailure(t *testing.T) {
	svc, repo, uploader := newTestService()
	uploader.failed = true

	_, err := svc.Create(
		context.Background(),
		citizen,
		validInput(),
		validFile(),
	)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UPSTREAM_FAILURE", appErr.Code)
	assert.Empty(t, repo.reports)
}

func TestVerifySetsVerificationFields(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(
		context.Background(),
		citizen,
		validInput(),
		validFile(),
	)
	require.NoError(t, err)

	verified, err := svc.Verify(
		context.Background(),
		official,
		created.ID,
		"confirmed on site",
	)
	require.NoError(t, err)

	assert.True(t, verified.Verified)
	assert.Equal(t, StatusVerified, verified.Status)
	require.NotNil(t, verified.VerifiedBy)
	assert.Equal(t, official.ID, *verified.VerifiedBy)
	assert.NotNil(t, verified.VerifiedAt)
	require.NotNil(t, verified.VerificationNotes)
	assert.Equal(t, "confirmed on site", *verified.VerificationNotes)
}

func TestRejectSetsRejectedStatus(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(
		context.Background(),
		citizen,
		validInput(),
		validFile(),
	)
	require.NoError(t, err)

	rejected, err := svc.Reject(context.Background(), official, created.ID, "")
	require.NoError(t, err)

	assert.False(t, rejected.Verified)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Nil(t, rejected.VerificationNotes)
}

// Re-verifying overwrites the verifier and timestamp without a guard.
func TestReVerifyOverwritesVerifier(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(
		context.Background(),
		citizen,
		validInput(),
		validFile(),
	)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), official, created.ID, "first")
	require.NoError(t, err)

	second := Actor{ID: uuid.New().String(), Role: user.RoleOfficial}
	result, err := svc.Verify(context.Background(), second, created.ID, "second")
	require.NoError(t, err)

	assert.Equal(t, second.ID, *result.VerifiedBy)
	assert.Equal(t, "second", *result.VerificationNotes)
}

func TestReviewForbiddenForCitizen(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(
		context.Background(),
		citizen,
		validInput(),
		validFile(),
	)
	require.NoError(t, err)

	var appErr *core.AppError

	_, err = svc.Verify(context.Background(), citizen, created.ID, "")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)

	_, err = svc.Reject(context.Background(), citizen, created.ID, "")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)

	err = svc.Delete(context.Background(), citizen, created.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
}

func TestSoftDeletedReportsAreInvisible(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(
		context.Background(),
		citizen,
		validInput(),
		validFile(),
	)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), official, created.ID))

	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	reports, total, err := svc.List(context.Background(), ListReportsParams{
		Status: StatusPending,
	})
	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.Zero(t, total)
}

func TestListPagination(t *testing.T) {
	svc, _, _ := newTestService()

	for i := 0; i < 25; i++ {
		file := validFile()
		file.Filename = fmt.Sprintf("smoke-%d.jpg", i)

		_, err := svc.Create(context.Background(), citizen, validInput(), file)
		require.NoError(t, err)
	}

	page2, total, err := svc.List(context.Background(), ListReportsParams{
		Page:     2,
		PageSize: 10,
	})
	require.NoError(t, err)

	assert.Len(t, page2, 10)
	assert.Equal(t, 25, total)

	page3, _, err := svc.List(context.Background(), ListReportsParams{
		Page:     3,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Len(t, page3, 5)
}

func TestGetByIDRejectsMalformedID(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetByID(context.Background(), "not-a-uuid")

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_IDENTIFIER", appErr.Code)
}

func TestCommentsAndFlags(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(
		context.Background(),
		citizen,
		validInput(),
		validFile(),
	)
	require.NoError(t, err)

	comment, err := svc.AddComment(
		context.Background(),
		official,
		created.ID,
		CommentInput{Text: "Inspection scheduled."},
	)
	require.NoError(t, err)
	assert.Equal(t, official.ID, comment.UserID)

	comments, err := svc.ListComments(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	_, err = svc.AddFlag(
		context.Background(),
		citizen,
		created.ID,
		FlagInput{Reason: "duplicate of an earlier report"},
	)
	require.NoError(t, err)

	// Engagement on a deleted report fails like the report is gone.
	require.NoError(t, svc.Delete(context.Background(), official, created.ID))

	_, err = svc.AddComment(
		context.Background(),
		citizen,
		created.ID,
		CommentInput{Text: "too late"},
	)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestLikeIncrements(t *testing.T) {
	svc, repo, _ := newTestService()

	created, err := svc.Create(
		context.Background(),
		citizen,
		validInput(),
		validFile(),
	)
	require.NoError(t, err)

	require.NoError(t, svc.Like(context.Background(), created.ID))
	require.NoError(t, svc.Like(context.Background(), created.ID))

	assert.Equal(t, 2, repo.reports[created.ID].Likes)
}
