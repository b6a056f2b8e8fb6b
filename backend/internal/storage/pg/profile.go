package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	internal_errors "github.com/bloodlink-dev/bloodlink/shared/errors"
)

const profileColumns = `id, name, email, blood_type, city, region, is_available, is_verified,
	is_admin, phone, age, family_card_number, created_at, updated_at`

// the WHERE fragments below are the SQL form of domain.DeriveStatus
var statusPredicates = map[domain.Status]string{
	domain.StatusVerified: "is_verified = true",
	domain.StatusBanned:   "is_verified = false AND is_available IS NOT TRUE",
	domain.StatusPending:  "(is_verified IS NULL OR (is_verified = false AND is_available = true))",
}

var errProfileNotFound = internal_errors.NotFound("Profile not found")

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(r rowScanner) (domain.Profile, error) {
	var row domain.ProfileRow
	err := r.Scan(&row.Id, &row.Name, &row.Email, &row.BloodType, &row.City, &row.Region,
		&row.IsAvailable, &row.IsVerified, &row.IsAdmin, &row.Phone, &row.Age,
		&row.FamilyCardNumber, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return domain.Profile{}, err
	}
	return domain.MapProfileRow(row), nil
}

// =========================================================================
// Public Methods
// =========================================================================

func (s *Storage) Profile(ctx context.Context, id domain.UserId) (domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.profile(ctx, s.db, id)
}

// UpdateProfile writes the self-service fields and returns the stored row.
func (s *Storage) UpdateProfile(ctx context.Context, id domain.UserId, u domain.ProfileUpdate) (domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p domain.Profile
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.updateProfile(ctx, tx, id, u); err != nil {
			return err
		}
		var err error
		p, err = s.profile(ctx, tx, id)
		return err
	})
	return p, err
}

// Moderate applies an admin flag change in a single statement. Nil fields are
// left as they are.
func (s *Storage) Moderate(ctx context.Context, id domain.UserId, m domain.Moderation) (domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.moderate(ctx, s.db, id, m)
}

// Profiles lists every profile, newest first, optionally limited to one status.
func (s *Storage) Profiles(ctx context.Context, status *domain.Status) ([]domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := "SELECT " + profileColumns + " FROM profiles"
	if status != nil {
		pred, ok := statusPredicates[*status]
		if !ok {
			return nil, internal_errors.BadRequest("Unknown status")
		}
		query += " WHERE " + pred
	}
	query += " ORDER BY created_at DESC"
	return s.profiles(ctx, s.db, query)
}

// AvailableDonors returns the profiles eligible for donor search.
func (s *Storage) AvailableDonors(ctx context.Context) ([]domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return s.profiles(ctx, s.db,
		"SELECT "+profileColumns+" FROM profiles WHERE is_available = true AND is_verified = true ORDER BY name")
}

func (s *Storage) CountByStatus(ctx context.Context, status domain.Status) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	pred, ok := statusPredicates[status]
	if !ok {
		return 0, internal_errors.BadRequest("Unknown status")
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM profiles WHERE "+pred).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s profiles: %w", status, err)
	}
	return n, nil
}

// IsAdmin reads the stored admin flag. A missing profile is not an admin.
func (s *Storage) IsAdmin(ctx context.Context, id domain.UserId) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var isAdmin bool
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(is_admin, false) FROM profiles WHERE id = $1", id).Scan(&isAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query admin flag: %w", err)
	}
	return isAdmin, nil
}

// BannedUserIds feeds the ban cache.
func (s *Storage) BannedUserIds(ctx context.Context) ([]domain.UserId, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT id FROM profiles WHERE "+statusPredicates[domain.StatusBanned])
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
	return ids, rows.Err()
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) profile(ctx context.Context, q Querier, id domain.UserId) (domain.Profile, error) {
	p, err := scanProfile(q.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Profile{}, errProfileNotFound
		}
		return domain.Profile{}, fmt.Errorf("failed to query profile: %w", err)
	}
	return p, nil
}

func (s *Storage) profiles(ctx context.Context, q Querier, query string, args ...any) ([]domain.Profile, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	list := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}
	return list, nil
}

func (s *Storage) updateProfile(ctx context.Context, q Querier, id domain.UserId, u domain.ProfileUpdate) error {
	result, err := q.ExecContext(ctx, `
		UPDATE profiles SET
			name = $2, blood_type = NULLIF($3, ''), city = $4, region = $5,
			is_available = $6, phone = $7, age = $8, family_card_number = $9,
			updated_at = now()
		WHERE id = $1`,
		id, u.Name, string(u.BloodType), u.City, u.Region, u.IsAvailable,
		u.Phone, u.Age, u.FamilyCardNumber)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return rowsAffectedOrNotFound(result, errProfileNotFound)
}

func (s *Storage) moderate(ctx context.Context, q Querier, id domain.UserId, m domain.Moderation) (domain.Profile, error) {
	p, err := scanProfile(q.QueryRowContext(ctx, `
		UPDATE profiles SET
			is_verified = CASE WHEN $2::boolean IS NULL THEN is_verified ELSE $2 END,
			is_available = CASE WHEN $3::boolean IS NULL THEN is_available ELSE $3 END,
			updated_at = now()
		WHERE id = $1
		RETURNING `+profileColumns,
		id, m.IsVerified, m.IsAvailable))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Profile{}, errProfileNotFound
		}
		return domain.Profile{}, fmt.Errorf("failed to moderate profile: %w", err)
	}
	return p, nil
}
