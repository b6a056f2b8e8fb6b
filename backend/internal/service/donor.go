package service

import (
	"context"
	"math/rand/v2"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/donor"
)

type DonorService interface {
	Donors(ctx context.Context) ([]domain.Donor, error)
}

type DonorStorage interface {
	AvailableDonors(ctx context.Context) ([]domain.Profile, error)
}

type Donor struct {
	storage  DonorStorage
	distance func() int
}

func NewDonor(storage DonorStorage) *Donor {
	return &Donor{storage: storage, distance: randomDistance}
}

// randomDistance stands in for geolocation: 1..20 km, drawn anew on every fetch.
func randomDistance() int {
	return rand.IntN(donor.MaxDistance) + 1
}

// Donors projects available, verified profiles into donor cards.
func (d *Donor) Donors(ctx context.Context) ([]domain.Donor, error) {
	profiles, err := d.storage.AvailableDonors(ctx)
	if err != nil {
		return nil, err
	}

	donors := make([]domain.Donor, 0, len(profiles))
	for _, p := range profiles {
		if p.Status() != domain.StatusVerified || !p.IsAvailable {
			continue
		}
		donors = append(donors, domain.DonorFromProfile(p, d.distance()))
	}
	return donors, nil
}
