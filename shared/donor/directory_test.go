package donor

import (
	"context"
	"testing"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/stretchr/testify/assert"
)

type mockLoader struct {
	DonorsFunc func(ctx context.Context) ([]domain.Donor, error)
	calls      int
}

func (m *mockLoader) Donors(ctx context.Context) ([]domain.Donor, error) {
	m.calls++
	return m.DonorsFunc(ctx)
}

func TestDirectory_LoadsOnce(t *testing.T) {
	loader := &mockLoader{DonorsFunc: func(ctx context.Context) ([]domain.Donor, error) {
		return amirAndSara(), nil
	}}
	dir := NewDirectory(loader, nil)

	assert.NoError(t, dir.Load(context.Background()))
	assert.NoError(t, dir.Load(context.Background()))

	f := DefaultFilter()
	f.MaxDistance = 10
	assert.Equal(t, []string{"Amir"}, names(dir.Results(f)))
	f.Clear()
	assert.Equal(t, []string{"Amir", "Sara"}, names(dir.Results(f)))
	assert.Equal(t, 2, dir.Total())
	assert.Equal(t, 1, loader.calls)
}

func TestDirectory_LoadFailure(t *testing.T) {
	loader := &mockLoader{DonorsFunc: func(ctx context.Context) ([]domain.Donor, error) {
		return nil, assert.AnError
	}}
	var notified []string
	dir := NewDirectory(loader, NotifierFunc(func(m string) { notified = append(notified, m) }))

	assert.ErrorIs(t, dir.Load(context.Background()), assert.AnError)
	assert.ErrorIs(t, dir.Load(context.Background()), assert.AnError)

	assert.Empty(t, dir.Results(DefaultFilter()))
	assert.Equal(t, []string{LoadFailedMessage}, notified)
	assert.Equal(t, 1, loader.calls, "no retry")
}
