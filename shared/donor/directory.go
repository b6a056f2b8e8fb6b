package donor

import (
	"context"
	"sync"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
)

// Loader fetches the raw donor list.
type Loader interface {
	Donors(ctx context.Context) ([]domain.Donor, error)
}

// Notifier surfaces a failed load to the user.
type Notifier interface {
	Notify(message string)
}

type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

const LoadFailedMessage = "Could not load donors. Please try again later."

// Directory is the donor list for one page view. It is fetched at most once;
// filtering afterwards never goes back to the loader.
type Directory struct {
	loader   Loader
	notifier Notifier

	once sync.Once
	raw  []domain.Donor
	err  error
}

func NewDirectory(loader Loader, notifier Notifier) *Directory {
	return &Directory{loader: loader, notifier: notifier}
}

// Load fetches the list on first call. A failure leaves the directory empty
// and notifies once; there is no retry.
func (d *Directory) Load(ctx context.Context) error {
	d.once.Do(func() {
		raw, err := d.loader.Donors(ctx)
		if err != nil {
			logger.Log.Error("failed to load donors", "error", err)
			d.err = err
			d.raw = nil
			if d.notifier != nil {
				d.notifier.Notify(LoadFailedMessage)
			}
			return
		}
		d.raw = raw
	})
	return d.err
}

// Results applies f to the loaded list.
func (d *Directory) Results(f Filter) []domain.Donor {
	return Apply(d.raw, f)
}

// Total is the unfiltered count.
func (d *Directory) Total() int {
	return len(d.raw)
}
