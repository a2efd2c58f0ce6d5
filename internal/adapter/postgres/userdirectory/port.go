// Package userdirectory reads display information from the shared users
// table. The engine never writes to it.
package userdirectory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/domain"
)

var _ primary.UserDirectory = (*UserDirectory)(nil)

// UserDirectory implements the UserDirectory interface against PostgreSQL.
type UserDirectory struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewUserDirectory creates a PostgreSQL-backed user directory.
func NewUserDirectory(db *sqlx.DB, logger primary.Logger) *UserDirectory {
	return &UserDirectory{
		db:     db,
		logger: logger,
	}
}

// GetUser retrieves the display projection of one user. An unknown id
// returns sql.ErrNoRows; callers degrade to the raw id.
func (d *UserDirectory) GetUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := `SELECT id, first_name, last_name, email FROM users WHERE id = $1`

	var profile domain.UserProfile
	if err := d.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return &profile, nil
}
