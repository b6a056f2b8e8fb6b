package session

import "github.com/bloodlink-dev/bloodlink/shared/domain"

// DefaultMaxAttempts is the profile fetch ceiling.
const DefaultMaxAttempts = 3

type Decision int

const (
	Done Decision = iota
	Retry
	GiveUp
)

func (d Decision) String() string {
	switch d {
	case Done:
		return "done"
	case Retry:
		return "retry"
	case GiveUp:
		return "give_up"
	}
	return "unknown"
}

// NextAttempt folds the outcome of one fetch into the attempt counter.
// Success resets the counter. A failure counts one attempt and gives up once
// max attempts have failed. The returned counter is never above max.
func NextAttempt(fetchErr error, attempts, max int) (int, Decision) {
	if max < 1 {
		max = 1
	}
	if fetchErr == nil {
		return 0, Done
	}
	attempts++
	if attempts >= max {
		return max, GiveUp
	}
	return attempts, Retry
}

// DeriveAdmin is true only for an explicit true admin flag.
func DeriveAdmin(p *domain.Profile) bool {
	return p != nil && p.IsAdmin != nil && *p.IsAdmin
}
