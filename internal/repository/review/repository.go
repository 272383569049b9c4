// Package review stores classified reviews in the external Postgres product store.
// The schema is owned elsewhere; this package never creates or migrates tables.
package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/kailas-cloud/reviewguard/internal/domain"
	domrev "github.com/kailas-cloud/reviewguard/internal/domain/review"
	"github.com/kailas-cloud/reviewguard/internal/domain/verdict"
)

const foreignKeyViolation = "23503"

// PoolConfig tunes the database/sql connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to Postgres through the pgx driver and verifies the connection.
func Open(ctx context.Context, dsn string, pool PoolConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	if pool.MaxOpenConns <= 0 {
		pool.MaxOpenConns = 10
	}
	if pool.MaxIdleConns <= 0 {
		pool.MaxIdleConns = pool.MaxOpenConns
	}
	if pool.ConnMaxLifetime <= 0 {
		pool.ConnMaxLifetime = 30 * time.Minute
	}
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// Repository implements the review store on database/sql.
type Repository struct {
	db *sql.DB
}

// New creates a Repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores a classified review. An unknown product yields domain.ErrNotFound.
func (r *Repository) Insert(ctx context.Context, rv domrev.Review) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO reviews (id, product_id, user_id, rating, comment, is_fake, confidence_score, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, rv.ID(), rv.ProductID(), rv.UserID(), rv.Rating(), rv.Comment(),
		rv.IsFake(), rv.Verdict().Confidence(), rv.CreatedAt())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return domain.WrapError(domain.ErrNotFound, "insert review", fmt.Errorf("product %s", rv.ProductID()))
		}
		return domain.WrapError(domain.ErrStoreUnavailable, "insert review", err)
	}
	return nil
}

// ListByProduct returns the reviews of one product, newest first.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]domrev.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT r.id, r.product_id, r.user_id, r.rating, r.comment, r.is_fake, r.confidence_score, r.created_at, ''
FROM reviews r
WHERE r.product_id = $1
ORDER BY r.created_at DESC
`, productID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStoreUnavailable, "list product reviews", err)
	}
	return scanReviews(rows, "list product reviews")
}

// ListAll returns every review with its product name, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]domrev.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT r.id, r.product_id, r.user_id, r.rating, r.comment, r.is_fake, r.confidence_score, r.created_at,
       COALESCE(p.name, '')
FROM reviews r
LEFT JOIN products p ON p.id = r.product_id
ORDER BY r.created_at DESC
`)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStoreUnavailable, "list reviews", err)
	}
	return scanReviews(rows, "list reviews")
}

// Delete removes a review. A missing id yields domain.ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return domain.WrapError(domain.ErrStoreUnavailable, "delete review", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(domain.ErrStoreUnavailable, "delete review rows affected", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "delete review", fmt.Errorf("review %s", id))
	}
	return nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return domain.WrapError(domain.ErrStoreUnavailable, "ping", err)
	}
	return nil
}

func scanReviews(rows *sql.Rows, op string) ([]domrev.Review, error) {
	defer func() { _ = rows.Close() }()

	out := make([]domrev.Review, 0)
	for rows.Next() {
		var (
			id, productID, userID uuid.UUID
			rating                int
			comment               string
			isFake                sql.NullBool
			confidence            sql.NullFloat64
			createdAt             time.Time
			productName           string
		)
		if err := rows.Scan(&id, &productID, &userID, &rating, &comment,
			&isFake, &confidence, &createdAt, &productName); err != nil {
			return nil, domain.WrapError(domain.ErrStoreUnavailable, op+" scan", err)
		}

		v, err := storedVerdict(isFake, confidence)
		if err != nil {
			return nil, fmt.Errorf("%s: review %s: %w", op, id, err)
		}
		out = append(out, domrev.Reconstruct(id, productID, userID, rating, comment, v, createdAt.UTC(), productName))
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStoreUnavailable, op+" iterate", err)
	}
	return out, nil
}

// storedVerdict rebuilds a verdict from nullable columns. Rows written
// before classification existed have no is_fake and stay unclassified;
// rows with a label but no confidence keep the label alone.
func storedVerdict(isFake sql.NullBool, confidence sql.NullFloat64) (verdict.Result, error) {
	if !isFake.Valid {
		return verdict.Result{}, nil
	}
	label := verdict.Genuine
	if isFake.Bool {
		label = verdict.Fake
	}
	if !confidence.Valid {
		return verdict.LabelOnly(label)
	}
	return verdict.New(label, confidence.Float64)
}
