package service

import (
	"context"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service/utils"
	validate "github.com/bloodlink-dev/bloodlink/backend/internal/utils"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
)

type ProfileService interface {
	Profile(ctx context.Context, id domain.UserId) (domain.Profile, error)
	Update(ctx context.Context, id domain.UserId, update domain.ProfileUpdate) (domain.Profile, error)
}

type ProfileStorage interface {
	Profile(ctx context.Context, id domain.UserId) (domain.Profile, error)
	UpdateProfile(ctx context.Context, id domain.UserId, update domain.ProfileUpdate) (domain.Profile, error)
}

type Profile struct {
	storage ProfileStorage
}

func NewProfile(storage ProfileStorage) *Profile {
	return &Profile{storage: storage}
}

func (p *Profile) Profile(ctx context.Context, id domain.UserId) (domain.Profile, error) {
	return p.storage.Profile(ctx, id)
}

// Update writes the self-service fields. Moderation flags are never touched here.
func (p *Profile) Update(ctx context.Context, id domain.UserId, u domain.ProfileUpdate) (domain.Profile, error) {
	u.Name = utils.SanitizeText(u.Name)
	u.City = utils.SanitizeText(u.City)
	u.Region = utils.SanitizeText(u.Region)
	u.Phone = utils.SanitizeOptional(u.Phone)
	u.FamilyCardNumber = utils.SanitizeOptional(u.FamilyCardNumber)

	if err := validateProfileUpdate(u); err != nil {
		return domain.Profile{}, err
	}
	return p.storage.UpdateProfile(ctx, id, u)
}

func validateProfileUpdate(u domain.ProfileUpdate) error {
	if err := validate.Required("Name", u.Name); err != nil {
		return err
	}
	if err := validate.Length("Name", u.Name, validate.MaxNameLen); err != nil {
		return err
	}
	if err := validate.Length("City", u.City, validate.MaxPlaceLen); err != nil {
		return err
	}
	if err := validate.Length("Region", u.Region, validate.MaxPlaceLen); err != nil {
		return err
	}
	if u.BloodType != "" && !u.BloodType.Valid() {
		return errors.BadRequest("Unknown blood type")
	}
	return validate.Age(u.Age)
}
