package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/bancache"
	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	internal_errors "github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/storage/pg"
	_ "github.com/lib/pq"
)

// Storage is the small query surface used outside the API server: the
// operator CLI and anything that only needs the ban list.
type Storage struct {
	db *sql.DB
}

var _ bancache.Storage = (*Storage)(nil)

func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	db, err := pg.Connect(ctx, cfg, pg.LightweightConnectionConfig())
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// NewWithDB wraps an existing pool.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// SetAdmin sets the admin flag on the profile with this email. The flag is
// picked up by the user's next token refresh.
func (s *Storage) SetAdmin(ctx context.Context, email domain.Email, admin bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET is_admin = $2, updated_at = now() WHERE lower(email) = lower($1)`,
		email, admin,
	)
	if err != nil {
		return fmt.Errorf("failed to update admin flag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}

// BannedUserIds returns every profile whose flags derive to the banned status.
func (s *Storage) BannedUserIds(ctx context.Context) ([]domain.UserId, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM profiles
		WHERE is_verified = false AND is_available = false`)
	if err != nil {
		return nil, fmt.Errorf("failed to query banned users: %w", err)
	}
	defer rows.Close()

	var ids []domain.UserId
	for rows.Next() {
		var id domain.UserId
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan banned user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating banned users: %w", err)
	}
	return ids, nil
}

// Cleanup closes the database connection pool.
func (s *Storage) Cleanup() {
	if s.db != nil {
		s.db.Close()
	}
}
