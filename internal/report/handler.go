// AngelaMos | 2026
// handler.go

package report

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pakair-dev/pakair-api/internal/core"
	"github.com/pakair-dev/pakair-api/internal/media"
	"github.com/pakair-dev/pakair-api/internal/middleware"
	"github.com/pakair-dev/pakair-api/internal/user"
)

// multipart form overhead allowance on top of the media size cap
const maxRequestBody = media.MaxUploadSize + 1<<20

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes are all mounted behind the Authenticator; role checks layer on top
// per route.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(middleware.RequireCitizen).Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)

	r.With(middleware.RequireOfficial).Patch("/{id}/verify", h.Verify)
	r.With(middleware.RequireOfficial).Patch("/{id}/reject", h.Reject)
	r.With(middleware.RequireOfficial).Delete("/{id}", h.Delete)

	r.Post("/{id}/comments", h.AddComment)
	r.Get("/{id}/comments", h.ListComments)
	r.Post("/{id}/flags", h.AddFlag)
	r.Post("/{id}/like", h.Like)

	return r
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			core.JSONError(
				w,
				core.PayloadTooLargeError("request body exceeds the upload limit"),
			)
			return
		}
		core.BadRequest(w, "invalid multipart body")
		return
	}

	input, err := parseCreateInput(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	if err := h.validate.Struct(input); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	file, err := parseMediaFile(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	report, err := h.service.Create(r.Context(), actorFrom(r), *input, file)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "Report submitted successfully", ToReportResponse(report))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	reports, total, err := h.service.List(r.Context(), *params)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Paginated(
		w,
		ToReportResponses(reports),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	h.service.RecordView(r.Context(), id)

	core.OK(w, ToReportResponse(report))
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, true)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, false)
}

func (h *Handler) review(
	w http.ResponseWriter,
	r *http.Request,
	approve bool,
) {
	var input VerificationInput
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}
	}

	if err := h.validate.Struct(input); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	id := chi.URLParam(r, "id")
	actor := actorFrom(r)

	var (
		report *Report
		err    error
	)
	if approve {
		report, err = h.service.Verify(r.Context(), actor, id, input.Notes)
	} else {
		report, err = h.service.Reject(r.Context(), actor, id, input.Notes)
	}
	if err != nil {
		core.JSONError(w, err)
		return
	}

	message := "Report rejected"
	if approve {
		message = "Report verified"
	}

	core.OKMessage(w, message, ToReportResponse(report))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), actorFrom(r), id); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, "Report deleted", nil)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	var input CommentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(input); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	id := chi.URLParam(r, "id")

	comment, err := h.service.AddComment(r.Context(), actorFrom(r), id, input)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "Comment added", ToCommentResponse(comment))
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	comments, err := h.service.ListComments(r.Context(), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, ToCommentResponse(&comments[i]))
	}

	core.OK(w, out)
}

func (h *Handler) AddFlag(w http.ResponseWriter, r *http.Request) {
	var input FlagInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(input); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	id := chi.URLParam(r, "id")

	if _, err := h.service.AddFlag(r.Context(), actorFrom(r), id, input); err != nil {
		core.JSONError(w, err)
		return
	}

	core.Created(w, "Report flagged for review", nil)
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Like(r.Context(), id); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OKMessage(w, "Report liked", nil)
}

func actorFrom(r *http.Request) Actor {
	role, err := user.ParseRole(middleware.GetUserRole(r.Context()))
	if err != nil {
		role = ""
	}

	return Actor{
		ID:   middleware.GetUserID(r.Context()),
		Role: role,
	}
}

func parseCreateInput(r *http.Request) (*CreateReportInput, error) {
	input := &CreateReportInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Address:     strings.TrimSpace(r.FormValue("address")),
		City:        strings.TrimSpace(r.FormValue("city")),
		Province:    strings.TrimSpace(r.FormValue("province")),
	}

	lat, err := strconv.ParseFloat(r.FormValue("latitude"), 64)
	if err != nil {
		return nil, core.ValidationError("latitude must be a number")
	}
	input.Latitude = lat

	lng, err := strconv.ParseFloat(r.FormValue("longitude"), 64)
	if err != nil {
		return nil, core.ValidationError("longitude must be a number")
	}
	input.Longitude = lng

	if v := r.FormValue("use_current_location"); v != "" {
		useCurrent, parseErr := strconv.ParseBool(v)
		if parseErr != nil {
			return nil, core.ValidationError(
				"use_current_location must be a boolean",
			)
		}
		input.UseCurrentLocation = useCurrent
	}

	if raw := r.FormValue("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if t := strings.TrimSpace(tag); t != "" {
				input.Tags = append(input.Tags, t)
			}
		}
	}

	return input, nil
}

func parseMediaFile(r *http.Request) (media.File, error) {
	file, header, err := r.FormFile("media")
	if err != nil {
		return media.File{}, core.ValidationError(
			"a media file is required in the \"media\" field",
		)
	}
	defer file.Close()

	if header.Size > media.MaxUploadSize {
		return media.File{}, core.PayloadTooLargeError(
			"media file exceeds the 20 MiB limit",
		)
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return media.File{}, core.ValidationError("could not read media file")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	return media.File{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Content:     content,
	}, nil
}

func parseListParams(r *http.Request) (*ListReportsParams, error) {
	params := &ListReportsParams{}
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status, err := ParseStatus(raw)
		if err != nil {
			return nil, core.ValidationError(
				"status must be one of: pending, under_review, verified, rejected, archived",
			)
		}
		params.Status = status
	}

	if raw := q.Get("verified"); raw != "" {
		verified, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, core.ValidationError("verified must be a boolean")
		}
		params.Verified = &verified
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, core.ValidationError("page must be a positive integer")
		}
		params.Page = page
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return nil, core.ValidationError("limit must be a positive integer")
		}
		params.PageSize = limit
	}

	params.Normalize()

	return params, nil
}
