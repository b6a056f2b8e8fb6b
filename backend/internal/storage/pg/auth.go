package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	internal_errors "github.com/bloodlink-dev/bloodlink/shared/errors"
	shared_pg "github.com/bloodlink-dev/bloodlink/shared/storage/pg"
)

// =========================================================================
// Public Methods (satisfy the service.AuthStorage interface)
// =========================================================================

// SaveUser creates the credentials row and the matching profile in one
// transaction. The profile insert is a no-op if the row already exists.
func (s *Storage) SaveUser(ctx context.Context, user domain.User, profile domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.saveUser(ctx, tx, user); err != nil {
			return err
		}
		profile.Id = user.Id
		profile.Email = user.Email
		return s.ensureProfile(ctx, tx, profile)
	})
}

// User fetches credentials by email, case-insensitively.
func (s *Storage) User(ctx context.Context, email domain.Email) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.user(ctx, s.db, "lower(u.email) = lower($1)", email)
}

func (s *Storage) UserById(ctx context.Context, id domain.UserId) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.user(ctx, s.db, "u.id = $1", id)
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) saveUser(ctx context.Context, q Querier, user domain.User) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO users(id, email, password_hash) VALUES($1, $2, $3)",
		user.Id, user.Email, user.PassHash)
	if err != nil {
		if shared_pg.IsUniqueViolation(err) {
			return internal_errors.New("Email is already registered", http.StatusConflict)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Storage) ensureProfile(ctx context.Context, q Querier, p domain.Profile) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO profiles(id, email, name, blood_type, city, region, is_available)
		VALUES($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), true)
		ON CONFLICT (id) DO NOTHING`,
		p.Id, p.Email, p.Name, string(p.BloodType), p.City, p.Region)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// user reads the admin flag from the profile; a missing or NULL flag is false.
func (s *Storage) user(ctx context.Context, q Querier, where string, arg any) (domain.User, error) {
	var user domain.User
	err := q.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.password_hash, COALESCE(p.is_admin, false), u.created_at
		FROM users u
		LEFT JOIN profiles p ON p.id = u.id
		WHERE `+where, arg,
	).Scan(&user.Id, &user.Email, &user.PassHash, &user.Admin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}
