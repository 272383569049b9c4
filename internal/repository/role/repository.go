// Package role answers role lookups from the external user_roles table.
// The schema is owned elsewhere; this package only reads it.
package role

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/kailas-cloud/reviewguard/internal/domain"
)

// Admin is the role that grants moderation access.
const Admin = "admin"

// Repository reads user roles on database/sql.
type Repository struct {
	db *sql.DB
}

// New creates a Repository over an open pool.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// IsAdmin reports whether userID holds the admin role.
func (r *Repository) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	return r.HasRole(ctx, userID, Admin)
}

// HasRole reports whether userID holds role.
func (r *Repository) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`,
		userID, role,
	).Scan(&ok)
	if err != nil {
		return false, domain.WrapError(domain.ErrStoreUnavailable, "lookup role", err)
	}
	return ok, nil
}
