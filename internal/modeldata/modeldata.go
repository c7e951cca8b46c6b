// AngelaMos | 2026
// modeldata.go

package modeldata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pakair-dev/pakair-api/internal/core"
)

// Record is a row from an externally populated collection. The payload is
// passed through untouched; this side never interprets the schema.
type Record struct {
	ID        string          `db:"id"        json:"id"`
	Payload   json.RawMessage `db:"payload"   json:"payload"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

type Repository interface {
	ListModelData(ctx context.Context) ([]Record, error)
	GetModelDataByID(ctx context.Context, id string) (*Record, error)
	ListRecommendations(ctx context.Context) ([]Record, error)
	GetRecommendationByID(ctx context.Context, id string) (*Record, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) ListModelData(ctx context.Context) ([]Record, error) {
	return r.list(ctx, "model_data")
}

func (r *repository) GetModelDataByID(
	ctx context.Context,
	id string,
) (*Record, error) {
	return r.get(ctx, "model_data", id)
}

func (r *repository) ListRecommendations(
	ctx context.Context,
) ([]Record, error) {
	return r.list(ctx, "recommendation_model")
}

func (r *repository) GetRecommendationByID(
	ctx context.Context,
	id string,
) (*Record, error) {
	return r.get(ctx, "recommendation_model", id)
}

func (r *repository) list(ctx context.Context, table string) ([]Record, error) {
	query := fmt.Sprintf(`
		SELECT id, payload, created_at, updated_at
		FROM %s
		ORDER BY created_at DESC`, table)

	var records []Record
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}

	return records, nil
}

func (r *repository) get(
	ctx context.Context,
	table, id string,
) (*Record, error) {
	query := fmt.Sprintf(`
		SELECT id, payload, created_at, updated_at
		FROM %s
		WHERE id = $1`, table)

	var record Record
	err := r.db.GetContext(ctx, &record, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", table, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}

	return &record, nil
}

// Service gates relay reads: malformed ids fail fast as InvalidIdentifier
// before touching the store, distinct from NotFound for well-formed ids
// that resolve to nothing.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListModelData(ctx context.Context) ([]Record, error) {
	return s.repo.ListModelData(ctx)
}

func (s *Service) GetModelDataByID(
	ctx context.Context,
	id string,
) (*Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, core.InvalidIDError()
	}
	return s.repo.GetModelDataByID(ctx, id)
}

func (s *Service) ListRecommendations(ctx context.Context) ([]Record, error) {
	return s.repo.ListRecommendations(ctx)
}

func (s *Service) GetRecommendationByID(
	ctx context.Context,
	id string,
) (*Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, core.InvalidIDError()
	}
	return s.repo.GetRecommendationByID(ctx, id)
}
