// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pakair-dev/pakair-api/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the user directory. Only officials may browse
// accounts; citizens interact with their own profile through /auth/me.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, officialOnly func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(officialOnly)

		r.Get("/", h.List)
		r.Get("/{userID}", h.GetByID)
		r.Delete("/{userID}", h.Deactivate)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "limit", 20),
	}

	if raw := r.URL.Query().Get("role"); raw != "" {
		role, err := ParseRole(raw)
		if err != nil {
			core.BadRequest(w, "role must be one of: citizen, official")
			return
		}
		params.Role = role
	}

	users, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}

	params.Normalize()
	core.Paginated(w, responses, params.Page, params.PageSize, total)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeUserError(w, err)
		return
	}

	core.OK(w, ToUserResponse(u))
}

// Deactivate disables the account and revokes its sessions. The row is
// kept; report attribution must survive account removal.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")

	if _, err := h.service.GetByID(r.Context(), id); err != nil {
		writeUserError(w, err)
		return
	}

	if err := h.service.Deactivate(r.Context(), id); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidID):
		core.JSONError(w, core.InvalidIDError())
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "user")
	default:
		core.InternalServerError(w, err)
	}
}

func parseIntQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
