package repository

import (
	"context"
	"errors"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GuidelineRepository struct {
	db dbtx
}

func NewGuidelineRepository(pool *pgxpool.Pool) *GuidelineRepository {
	return &GuidelineRepository{db: pool}
}

func NewGuidelineRepositoryWithTx(tx pgx.Tx) *GuidelineRepository {
	return &GuidelineRepository{db: tx}
}

func (r *GuidelineRepository) Create(ctx context.Context, g *domain.Guideline) error {
	if err := domain.ValidateGuideline(g); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO guidelines (id, world_id, title) VALUES ($1, $2, $3)`,
		g.ID, nullableString(g.WorldID), g.Title,
	)
	return err
}

func (r *GuidelineRepository) GetByID(ctx context.Context, id string) (*domain.Guideline, error) {
	var g domain.Guideline
	var worldID *string
	err := r.db.QueryRow(ctx,
		`SELECT id, world_id, title FROM guidelines WHERE id = $1`, id,
	).Scan(&g.ID, &worldID, &g.Title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewDomainError(domain.ErrCodeNotFound, "guideline not found")
		}
		return nil, err
	}
	if worldID != nil {
		g.WorldID = *worldID
	}
	return &g, nil
}

// Exists reports whether the guideline row is still present.
func (r *GuidelineRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM guidelines WHERE id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

func (r *GuidelineRepository) ListByWorld(ctx context.Context, worldID string) ([]*domain.Guideline, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, world_id, title FROM guidelines
		 WHERE ($1 = '' OR world_id = $1)
		 ORDER BY title`,
		worldID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.Guideline
	for rows.Next() {
		var g domain.Guideline
		var wid *string
		if err := rows.Scan(&g.ID, &wid, &g.Title); err != nil {
			return nil, err
		}
		if wid != nil {
			g.WorldID = *wid
		}
		results = append(results, &g)
	}
	return results, rows.Err()
}

func (r *GuidelineRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM guidelines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.NewDomainError(domain.ErrCodeNotFound, "guideline not found")
	}
	return nil
}
