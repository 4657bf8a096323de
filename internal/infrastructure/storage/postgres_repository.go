package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"housingscout/internal/domain"
	"housingscout/internal/ports"
)

// ContactStatusNew is the outreach status assigned to freshly
// discovered contacts.
const ContactStatusNew = "not_contacted"

// PostgresRepository persists institutions and their discovered
// contacts into Postgres.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.InstitutionRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// FindInstitution looks the institution up by any of its name
// variants, exact matches first, then a fuzzy pass. A nil result with
// nil error means the institution is unknown.
func (r *PostgresRepository) FindInstitution(ctx context.Context, variants []string) (*domain.Institution, error) {
	if r.db == nil || len(variants) == 0 {
		return nil, nil
	}

	query, args, err := r.builder.
		Select("id", "name", "website").
		From("institutions").
		Where(sq.Expr("LOWER(name) = ANY(?)", pq.StringArray(lowered(variants)))).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find query: %w", err)
	}

	inst, err := r.scanInstitution(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if inst != nil {
		return inst, nil
	}

	// Fuzzy pass: matches "X University" against a stored "X
	// University, Main Campus" and the like.
	likes := make(sq.Or, 0, len(variants))
	for _, v := range variants {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		likes = append(likes, sq.ILike{"name": "%" + v + "%"})
	}
	if len(likes) == 0 {
		return nil, nil
	}

	query, args, err = r.builder.
		Select("id", "name", "website").
		From("institutions").
		Where(likes).
		OrderBy("LENGTH(name)").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build fuzzy query: %w", err)
	}
	return r.scanInstitution(ctx, query, args...)
}

// CreateInstitution stores a new institution with the pages discovered
// for it and returns the stored row.
func (r *PostgresRepository) CreateInstitution(ctx context.Context, name, website string, pages []string) (domain.Institution, error) {
	if r.db == nil {
		return domain.Institution{Name: name, Website: website}, nil
	}

	query, args, err := r.builder.
		Insert("institutions").
		Columns("name", "website", "housing_pages_discovered").
		Values(name, website, pq.StringArray(pages)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.Institution{}, fmt.Errorf("build insert: %w", err)
	}

	inst := domain.Institution{Name: name, Website: website}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&inst.ID); err != nil {
		return domain.Institution{}, fmt.Errorf("insert institution: %w", err)
	}
	return inst, nil
}

// ListExistingContacts returns the contacts already stored for the
// institution, best score first.
func (r *PostgresRepository) ListExistingContacts(ctx context.Context, institutionID string) ([]domain.ScoredContact, error) {
	if r.db == nil || institutionID == "" {
		return nil, nil
	}

	query, args, err := r.builder.
		Select("name", "title", "email", "phone", "department", "source_url", "relevance_score").
		From("contacts").
		Where(sq.Eq{"institution_id": institutionID}).
		OrderBy("relevance_score DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build contacts query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.ScoredContact
	for rows.Next() {
		var c domain.ScoredContact
		var title, phone, department, sourceURL sql.NullString
		if err := rows.Scan(&c.Name, &title, &c.Email, &phone, &department, &sourceURL, &c.Score); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.Title = title.String
		c.Phone = phone.String
		c.Department = department.String
		c.SourceURL = sourceURL.String
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// InsertContacts stores the run's surviving contacts for outreach.
func (r *PostgresRepository) InsertContacts(ctx context.Context, institutionID string, contacts []domain.ScoredContact) error {
	if r.db == nil || len(contacts) == 0 {
		return nil
	}
	if institutionID == "" {
		return errors.New("institution id required")
	}

	insert := r.builder.
		Insert("contacts").
		Columns("institution_id", "name", "title", "email", "phone", "department", "source_url", "relevance_score", "status")
	for _, c := range contacts {
		insert = insert.Values(
			institutionID,
			c.Name,
			c.Title,
			c.Email,
			c.Phone,
			c.Department,
			c.SourceURL,
			c.Score,
			ContactStatusNew,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build contacts insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert contacts: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanInstitution(ctx context.Context, query string, args ...any) (*domain.Institution, error) {
	var inst domain.Institution
	var website sql.NullString
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&inst.ID, &inst.Name, &website)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query institution: %w", err)
	}
	inst.Website = website.String
	return &inst, nil
}

func lowered(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(strings.TrimSpace(v)))
	}
	return out
}
