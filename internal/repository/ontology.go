package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OntologyRepository struct {
	db dbtx
}

func NewOntologyRepository(pool *pgxpool.Pool) *OntologyRepository {
	return &OntologyRepository{db: pool}
}

func NewOntologyRepositoryWithTx(tx pgx.Tx) *OntologyRepository {
	return &OntologyRepository{db: tx}
}

func (r *OntologyRepository) Create(ctx context.Context, o *domain.OntologyGraph) error {
	if err := domain.ValidateOntologyGraph(o); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO ontologies (id, domain_id, content, base_uri, is_base, is_editable, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, o.DomainID, o.Content, nullableString(o.BaseURI), o.IsBase, o.IsEditable, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrOntologyAlreadyExists
		}
		return err
	}
	return r.replaceImports(ctx, o.ID, o.Imports)
}

func (r *OntologyRepository) GetByDomain(ctx context.Context, domainID string) (*domain.OntologyGraph, error) {
	var o domain.OntologyGraph
	var baseURI *string
	err := r.db.QueryRow(ctx,
		`SELECT id, domain_id, content, base_uri, is_base, is_editable, created_at, updated_at
		 FROM ontologies WHERE domain_id = $1`,
		domainID,
	).Scan(&o.ID, &o.DomainID, &o.Content, &baseURI, &o.IsBase, &o.IsEditable, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOntologyNotFound
		}
		return nil, err
	}
	if baseURI != nil {
		o.BaseURI = *baseURI
	}

	imports, err := r.listImports(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Imports = imports
	return &o, nil
}

// UpdateContent replaces an ontology's content and records an immutable
// version snapshot with the next monotonic version number.
func (r *OntologyRepository) UpdateContent(ctx context.Context, domainID, content, commitMessage string) (*domain.OntologyVersion, error) {
	o, err := r.GetByDomain(ctx, domainID)
	if err != nil {
		return nil, err
	}
	if !o.IsEditable {
		return nil, domain.ErrOntologyNotEditable
	}

	now := time.Now().UTC()
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE ontologies SET content = $1, updated_at = $2 WHERE domain_id = $3`,
		content, now, domainID,
	)
	if err != nil {
		return nil, err
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, domain.ErrOntologyNotFound
	}

	var version int64
	err = r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(version_number), 0) + 1 FROM ontology_versions WHERE ontology_id = $1`,
		o.ID,
	).Scan(&version)
	if err != nil {
		return nil, err
	}

	v := &domain.OntologyVersion{
		OntologyID:    o.ID,
		VersionNumber: version,
		Content:       content,
		CommitMessage: commitMessage,
		CreatedAt:     now,
	}
	if err := r.createVersion(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *OntologyRepository) createVersion(ctx context.Context, v *domain.OntologyVersion) error {
	if err := domain.ValidateOntologyVersion(v); err != nil {
		return err
	}
	return r.db.QueryRow(ctx,
		`INSERT INTO ontology_versions (ontology_id, version_number, content, commit_message, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		v.OntologyID, v.VersionNumber, v.Content, v.CommitMessage, v.CreatedAt,
	).Scan(&v.ID)
}

func (r *OntologyRepository) GetVersions(ctx context.Context, ontologyID string) ([]*domain.OntologyVersion, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, ontology_id, version_number, content, commit_message, created_at
		 FROM ontology_versions WHERE ontology_id = $1 ORDER BY version_number DESC`,
		ontologyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*domain.OntologyVersion
	for rows.Next() {
		var v domain.OntologyVersion
		if err := rows.Scan(&v.ID, &v.OntologyID, &v.VersionNumber, &v.Content, &v.CommitMessage, &v.CreatedAt); err != nil {
			return nil, err
		}
		versions = append(versions, &v)
	}
	return versions, rows.Err()
}

func (r *OntologyRepository) ListDomains(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT domain_id FROM ontologies ORDER BY domain_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

func (r *OntologyRepository) replaceImports(ctx context.Context, ontologyID string, imports []string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM ontology_imports WHERE ontology_id = $1`, ontologyID); err != nil {
		return err
	}
	for _, imp := range imports {
		if _, err := r.db.Exec(ctx,
			`INSERT INTO ontology_imports (ontology_id, imports_domain_id) VALUES ($1, $2)`,
			ontologyID, imp,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *OntologyRepository) listImports(ctx context.Context, ontologyID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT imports_domain_id FROM ontology_imports WHERE ontology_id = $1 ORDER BY imports_domain_id`,
		ontologyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imports []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		imports = append(imports, d)
	}
	return imports, rows.Err()
}
