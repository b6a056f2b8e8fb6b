package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	internal_errors "github.com/bloodlink-dev/bloodlink/shared/errors"
)

const requestColumns = `id, title, blood_type, location, status, deadline, description, matched, created_by, created_at`

var errRequestNotFound = internal_errors.NotFound("Blood request not found")

func scanRequest(r rowScanner) (domain.BloodRequest, error) {
	var (
		req       domain.BloodRequest
		createdBy sql.NullString
	)
	err := r.Scan(&req.Id, &req.Title, &req.BloodType, &req.Location, &req.Status,
		&req.Deadline, &req.Description, &req.Matched, &createdBy, &req.CreatedAt)
	if err != nil {
		return domain.BloodRequest{}, err
	}
	if createdBy.Valid {
		if err := req.CreatedBy.Scan(createdBy.String); err != nil {
			return domain.BloodRequest{}, err
		}
	}
	return req, nil
}

// =========================================================================
// Public Methods (satisfy the service.RequestStorage interface)
// =========================================================================

func (s *Storage) SaveRequest(ctx context.Context, req domain.BloodRequest) (domain.BloodRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	saved, err := scanRequest(s.db.QueryRowContext(ctx, `
		INSERT INTO blood_requests(id, title, blood_type, location, status, deadline, description, matched, created_by)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+requestColumns,
		req.Id, req.Title, string(req.BloodType), req.Location, string(req.Status),
		req.Deadline, req.Description, req.Matched, req.CreatedBy))
	if err != nil {
		return domain.BloodRequest{}, fmt.Errorf("failed to insert blood request: %w", err)
	}
	return saved, nil
}

// Requests lists blood requests, open ones first, then by nearest deadline.
func (s *Storage) Requests(ctx context.Context) ([]domain.BloodRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+requestColumns+` FROM blood_requests
		ORDER BY (status = 'completed'), deadline, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query blood requests: %w", err)
	}
	defer rows.Close()

	list := []domain.BloodRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blood request: %w", err)
		}
		list = append(list, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blood requests: %w", err)
	}
	return list, nil
}

func (s *Storage) Request(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	req, err := scanRequest(s.db.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM blood_requests WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BloodRequest{}, errRequestNotFound
		}
		return domain.BloodRequest{}, fmt.Errorf("failed to query blood request: %w", err)
	}
	return req, nil
}

// MatchRequest marks a donor as found and moves the request to ongoing.
// Completed requests are not reopened.
func (s *Storage) MatchRequest(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error) {
	return s.updateRequest(ctx, id,
		"matched = true, status = CASE WHEN status = 'completed' THEN status ELSE 'ongoing' END")
}

func (s *Storage) CompleteRequest(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error) {
	return s.updateRequest(ctx, id, "status = 'completed'")
}

func (s *Storage) DeleteRequest(ctx context.Context, id domain.RequestId) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, "DELETE FROM blood_requests WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete blood request: %w", err)
	}
	return rowsAffectedOrNotFound(result, errRequestNotFound)
}

func (s *Storage) CountOpenRequests(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var n int
	err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM blood_requests WHERE status <> 'completed'").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count open requests: %w", err)
	}
	return n, nil
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

// updateRequest runs a single UPDATE so a failure leaves the row untouched.
func (s *Storage) updateRequest(ctx context.Context, id domain.RequestId, set string) (domain.BloodRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	req, err := scanRequest(s.db.QueryRowContext(ctx,
		"UPDATE blood_requests SET "+set+" WHERE id = $1 RETURNING "+requestColumns, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BloodRequest{}, errRequestNotFound
		}
		return domain.BloodRequest{}, fmt.Errorf("failed to update blood request: %w", err)
	}
	return req, nil
}
