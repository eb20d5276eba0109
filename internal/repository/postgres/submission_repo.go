package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"leadgen-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

const pgUniqueViolation = "23505"

// Migrate creates the submission tables if they do not exist yet
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Schema returns the DDL applied by Migrate
func Schema() string {
	return schema
}

type submissionRepo struct {
	db *pgxpool.Pool
}

func NewSubmissionRepository(db *pgxpool.Pool) domain.SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) CreateContact(ctx context.Context, rec *domain.ContactRecord) error {
	query := `INSERT INTO contacts (id, name, email, company, message, source, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.Name, rec.Email, nullable(rec.Company), rec.Message, rec.Source, rec.CreatedAt,
	)
	return wrapInsert("contacts", err)
}

func (r *submissionRepo) CreateBookCall(ctx context.Context, rec *domain.BookCallRecord) error {
	query := `INSERT INTO book_calls (id, name, email, company, preferred_date, preferred_time, notes, source, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.Name, rec.Email, nullable(rec.Company),
		nullable(rec.PreferredDate), nullable(rec.PreferredTime), nullable(rec.Notes),
		rec.Source, rec.CreatedAt,
	)
	return wrapInsert("book_calls", err)
}

func (r *submissionRepo) CreateOrder(ctx context.Context, rec *domain.OrderRecord) error {
	query := `INSERT INTO orders (id, industry, geography, company_sizes, roles, tech_filters, volume, deadline,
                  contact_name, contact_email, company, consent, source, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.Industry,
		pq.Array(rec.Geography), pq.Array(rec.CompanySizes), pq.Array(rec.Roles), pq.Array(rec.TechFilters),
		rec.Volume, nullable(rec.Deadline),
		rec.ContactName, rec.ContactEmail, nullable(rec.Company), rec.Consent,
		rec.Source, rec.CreatedAt,
	)
	return wrapInsert("orders", err)
}

const (
	contactColumns  = `id, name, email, COALESCE(company, ''), message, source, created_at`
	bookCallColumns = `id, name, email, COALESCE(company, ''), COALESCE(preferred_date, ''),
                       COALESCE(preferred_time, ''), COALESCE(notes, ''), source, created_at`
	orderColumns = `id, industry, geography, company_sizes, roles, tech_filters, volume, COALESCE(deadline, ''),
                    contact_name, contact_email, COALESCE(company, ''), consent, source, created_at`
)

// table maps a kind to its table and column list
func table(kind domain.Kind) (name, columns string, err error) {
	switch kind {
	case domain.KindContact:
		return "contacts", contactColumns, nil
	case domain.KindBookCall:
		return "book_calls", bookCallColumns, nil
	case domain.KindOrder:
		return "orders", orderColumns, nil
	}
	return "", "", fmt.Errorf("unknown submission kind %q", kind)
}

func (r *submissionRepo) Get(ctx context.Context, kind domain.Kind, id string) (domain.Record, error) {
	name, columns, err := table(kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + columns + ` FROM ` + name + ` WHERE id = $1`
	rec, err := scanRecord(kind, r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *submissionRepo) List(ctx context.Context, kind domain.Kind, limit, offset int) ([]domain.Record, int64, error) {
	name, columns, err := table(kind)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM `+name).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + columns + ` FROM ` + name + ` ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]domain.Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(kind, rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *submissionRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanRecord(kind domain.Kind, row pgx.Row) (domain.Record, error) {
	switch kind {
	case domain.KindContact:
		var c domain.ContactRecord
		err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Message, &c.Source, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		return &c, nil
	case domain.KindBookCall:
		var b domain.BookCallRecord
		err := row.Scan(&b.ID, &b.Name, &b.Email, &b.Company, &b.PreferredDate, &b.PreferredTime, &b.Notes, &b.Source, &b.CreatedAt)
		if err != nil {
			return nil, err
		}
		return &b, nil
	case domain.KindOrder:
		var o domain.OrderRecord
		err := row.Scan(&o.ID, &o.Industry,
			pq.Array(&o.Geography), pq.Array(&o.CompanySizes), pq.Array(&o.Roles), pq.Array(&o.TechFilters),
			&o.Volume, &o.Deadline, &o.ContactName, &o.ContactEmail, &o.Company, &o.Consent, &o.Source, &o.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		return &o, nil
	}
	return nil, fmt.Errorf("unknown submission kind %q", kind)
}

// nullable stores empty optional text as NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func wrapInsert(table string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("insert into %s: duplicate id: %w", table, err)
		}
		return fmt.Errorf("insert into %s: %s (%s): %w", table, pgErr.Message, pgErr.Code, err)
	}
	return fmt.Errorf("insert into %s: %w", table, err)
}
