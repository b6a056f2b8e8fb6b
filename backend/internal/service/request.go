package service

import (
	"context"
	"time"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service/utils"
	validate "github.com/bloodlink-dev/bloodlink/backend/internal/utils"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/oklog/ulid/v2"
)

type RequestService interface {
	List(ctx context.Context) ([]domain.BloodRequest, error)
	Create(ctx context.Context, author domain.UserId, req domain.BloodRequest) (domain.BloodRequest, error)
	Match(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error)
	Complete(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error)
	Delete(ctx context.Context, id domain.RequestId) error
}

type RequestStorage interface {
	SaveRequest(ctx context.Context, req domain.BloodRequest) (domain.BloodRequest, error)
	Requests(ctx context.Context) ([]domain.BloodRequest, error)
	MatchRequest(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error)
	CompleteRequest(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error)
	DeleteRequest(ctx context.Context, id domain.RequestId) error
}

type Request struct {
	storage RequestStorage
	now     func() time.Time
}

func NewRequest(storage RequestStorage) *Request {
	return &Request{storage: storage, now: time.Now}
}

func (r *Request) List(ctx context.Context) ([]domain.BloodRequest, error) {
	return r.storage.Requests(ctx)
}

// Create assigns a ULID so ids sort by creation time. The description is kept
// as markdown; it is sanitized when rendered.
func (r *Request) Create(ctx context.Context, author domain.UserId, req domain.BloodRequest) (domain.BloodRequest, error) {
	req.Title = utils.SanitizeText(req.Title)
	req.Location = utils.SanitizeText(req.Location)

	if err := validate.Required("Title", req.Title); err != nil {
		return domain.BloodRequest{}, err
	}
	if err := validate.Length("Title", req.Title, validate.MaxTitleLen); err != nil {
		return domain.BloodRequest{}, err
	}
	if err := validate.Required("Location", req.Location); err != nil {
		return domain.BloodRequest{}, err
	}
	if err := validate.Length("Description", req.Description, validate.MaxDescriptionLen); err != nil {
		return domain.BloodRequest{}, err
	}
	if !req.BloodType.Valid() {
		return domain.BloodRequest{}, errors.BadRequest("Unknown blood type")
	}
	if req.Status == "" {
		req.Status = domain.RequestUrgent
	}
	if _, ok := domain.ParseRequestStatus(string(req.Status)); !ok {
		return domain.BloodRequest{}, errors.BadRequest("Unknown request status")
	}
	if req.Deadline.IsZero() {
		return domain.BloodRequest{}, errors.BadRequest("Deadline is required")
	}

	now := r.now()
	req.Id = ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
	req.CreatedBy = author
	req.Matched = false

	saved, err := r.storage.SaveRequest(ctx, req)
	if err != nil {
		return domain.BloodRequest{}, err
	}
	logger.Log.Info("blood request created", "request_id", saved.Id, "blood_type", saved.BloodType, "status", saved.Status)
	return saved, nil
}

func (r *Request) Match(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error) {
	if err := checkRequestId(id); err != nil {
		return domain.BloodRequest{}, err
	}
	return r.storage.MatchRequest(ctx, id)
}

func (r *Request) Complete(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error) {
	if err := checkRequestId(id); err != nil {
		return domain.BloodRequest{}, err
	}
	return r.storage.CompleteRequest(ctx, id)
}

func (r *Request) Delete(ctx context.Context, id domain.RequestId) error {
	if err := checkRequestId(id); err != nil {
		return err
	}
	return r.storage.DeleteRequest(ctx, id)
}

func checkRequestId(id domain.RequestId) error {
	if _, err := ulid.ParseStrict(id); err != nil {
		return errors.BadRequest("Invalid request id")
	}
	return nil
}
