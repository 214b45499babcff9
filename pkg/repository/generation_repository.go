package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dskvich/imagegen/pkg/domain"
	"github.com/uptrace/bun"
)

type generationRepository struct {
	db *bun.DB
}

func NewGenerationRepository(db *bun.DB) *generationRepository {
	return &generationRepository{db: db}
}

func (g *generationRepository) Save(ctx context.Context, generation *domain.Generation) error {
	_, err := g.db.NewInsert().
		Model(generation).
		Returning("id").
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("saving generation: %w", err)
	}

	return nil
}

func (g *generationRepository) GetByID(ctx context.Context, id int64) (*domain.Generation, error) {
	var generation domain.Generation

	err := g.db.NewSelect().
		Model(&generation).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching generation by id %d: %w", id, err)
	}

	return &generation, nil
}

func (g *generationRepository) ListRecent(ctx context.Context, limit int) ([]domain.Generation, error) {
	var generations []domain.Generation

	err := g.db.NewSelect().
		Model(&generations).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recent generations: %w", err)
	}

	return generations, nil
}
