package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tripleColumns = `id, subject, predicate, object_uri, object_literal, is_literal,
	 subject_label, predicate_label, object_label, metadata,
	 world_id, scenario_id, character_id, guideline_id,
	 temporal_start, temporal_end, created_at, updated_at`

type TripleRepository struct {
	db dbtx
}

func NewTripleRepository(pool *pgxpool.Pool) *TripleRepository {
	return &TripleRepository{db: pool}
}

func NewTripleRepositoryWithTx(tx pgx.Tx) *TripleRepository {
	return &TripleRepository{db: tx}
}

func (r *TripleRepository) Create(ctx context.Context, t *domain.Triple) error {
	if err := domain.ValidateTriple(t); err != nil {
		return err
	}
	metadata := t.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO triples (`+tripleColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		t.ID, t.Subject, t.Predicate,
		nullableString(t.ObjectURI), nullableString(t.ObjectLiteral), t.IsLiteral,
		nullableString(t.SubjectLabel), nullableString(t.PredicateLabel), nullableString(t.ObjectLabel),
		metadata,
		nullableString(t.WorldID), nullableString(t.ScenarioID),
		nullableString(t.CharacterID), nullableString(t.GuidelineID),
		t.TemporalStart, t.TemporalEnd, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (r *TripleRepository) GetByID(ctx context.Context, id string) (*domain.Triple, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+tripleColumns+` FROM triples WHERE id = $1`, id)
	t, err := scanTriple(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripleNotFound
		}
		return nil, err
	}
	return t, nil
}

// FindExact returns the first stored triple exactly matching (subject,
// predicate, object, is_literal), skipping triples owned by the excluded
// provenance scope. Returns ErrTripleNotFound on miss.
func (r *TripleRepository) FindExact(ctx context.Context, subject, predicate, object string, isLiteral bool, exclude domain.ProvenanceScope) (*domain.Triple, error) {
	objectColumn := "object_uri"
	if isLiteral {
		objectColumn = "object_literal"
	}

	row := r.db.QueryRow(ctx,
		`SELECT `+tripleColumns+` FROM triples
		 WHERE subject = $1 AND predicate = $2 AND `+objectColumn+` = $3 AND is_literal = $4
		   AND ($5 = '' OR world_id IS DISTINCT FROM $5)
		   AND ($6 = '' OR guideline_id IS DISTINCT FROM $6)
		 ORDER BY created_at
		 LIMIT 1`,
		subject, predicate, object, isLiteral, exclude.WorldID, exclude.GuidelineID,
	)
	t, err := scanTriple(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripleNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListBySubjectOrObject returns triples where the URI appears as subject or
// as object reference.
func (r *TripleRepository) ListBySubjectOrObject(ctx context.Context, uri string) ([]*domain.Triple, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+tripleColumns+` FROM triples
		 WHERE subject = $1 OR object_uri = $1
		 ORDER BY created_at`,
		uri,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTripleRows(rows)
}

// ListByGuidelineScope returns triples attributed to some guideline,
// optionally narrowed to a world.
func (r *TripleRepository) ListByGuidelineScope(ctx context.Context, worldID string) ([]*domain.Triple, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+tripleColumns+` FROM triples
		 WHERE guideline_id IS NOT NULL
		   AND ($1 = '' OR world_id = $1)
		 ORDER BY created_at`,
		worldID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTripleRows(rows)
}

// ListByGuideline returns triples attributed to one guideline.
func (r *TripleRepository) ListByGuideline(ctx context.Context, guidelineID string) ([]*domain.Triple, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+tripleColumns+` FROM triples
		 WHERE guideline_id = $1
		 ORDER BY created_at`,
		guidelineID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTripleRows(rows)
}

func (r *TripleRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM triples WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return cmdTag.RowsAffected(), nil
}

// NullifyGuideline clears the guideline reference on the given triples and
// strips the matching metadata key.
func (r *TripleRepository) NullifyGuideline(ctx context.Context, ids []string, metadataKey string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE triples
		 SET guideline_id = NULL, metadata = metadata - $2, updated_at = $3
		 WHERE id = ANY($1)`,
		ids, metadataKey, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return cmdTag.RowsAffected(), nil
}

func scanTriple(row pgx.Row) (*domain.Triple, error) {
	var t domain.Triple
	var objectURI, objectLiteral *string
	var subjectLabel, predicateLabel, objectLabel *string
	var worldID, scenarioID, characterID, guidelineID *string
	err := row.Scan(
		&t.ID, &t.Subject, &t.Predicate, &objectURI, &objectLiteral, &t.IsLiteral,
		&subjectLabel, &predicateLabel, &objectLabel, &t.Metadata,
		&worldID, &scenarioID, &characterID, &guidelineID,
		&t.TemporalStart, &t.TemporalEnd, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&t.ObjectURI, objectURI)
	assign(&t.ObjectLiteral, objectLiteral)
	assign(&t.SubjectLabel, subjectLabel)
	assign(&t.PredicateLabel, predicateLabel)
	assign(&t.ObjectLabel, objectLabel)
	assign(&t.WorldID, worldID)
	assign(&t.ScenarioID, scenarioID)
	assign(&t.CharacterID, characterID)
	assign(&t.GuidelineID, guidelineID)
	return &t, nil
}

func scanTripleRows(rows pgx.Rows) ([]*domain.Triple, error) {
	var results []*domain.Triple
	for rows.Next() {
		t, err := scanTriple(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}
