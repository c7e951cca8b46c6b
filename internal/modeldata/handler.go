// AngelaMos | 2026
// handler.go

package modeldata

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pakair-dev/pakair-api/internal/core"
	"github.com/pakair-dev/pakair-api/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ModelDataRoutes and RecommendationRoutes are mounted separately so the
// entrypoint can keep the original /api/model-data and /api/recommendations
// paths. Both are official-only.
func (h *Handler) ModelDataRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireOfficial)
	r.Get("/", h.ListModelData)
	r.Get("/{id}", h.GetModelDataByID)
	return r
}

func (h *Handler) RecommendationRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireOfficial)
	r.Get("/", h.ListRecommendations)
	r.Get("/{id}", h.GetRecommendationByID)
	return r
}

func (h *Handler) ListModelData(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListModelData(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, records)
}

func (h *Handler) GetModelDataByID(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.GetModelDataByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, record)
}

func (h *Handler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListRecommendations(r.Context())
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, records)
}

func (h *Handler) GetRecommendationByID(
	w http.ResponseWriter,
	r *http.Request,
) {
	record, err := h.service.GetRecommendationByID(
		r.Context(),
		chi.URLParam(r, "id"),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, record)
}
