// Package donor holds the donor directory: the search filter and the
// once-per-page donor list it is applied to.
package donor

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

// MaxDistance is the slider's upper bound. At this value the distance
// predicate is off.
const MaxDistance = 20

// MinDistance is the slider's lower bound, the smallest generated distance.
const MinDistance = 1

const dateLayout = "2006-01-02"

type Filter struct {
	Search      string
	BloodType   *domain.BloodType
	MaxDistance int
	// Date is the preferred donation date. Donors carry no schedule, so it is
	// echoed back to the form but never narrows the list.
	Date *time.Time
}

func DefaultFilter() Filter {
	return Filter{MaxDistance: MaxDistance}
}

// Clear resets every input to its default.
func (f *Filter) Clear() {
	*f = DefaultFilter()
}

func (f Filter) IsDefault() bool {
	return f.Search == "" && f.BloodType == nil && f.MaxDistance >= MaxDistance && f.Date == nil
}

func (f Filter) matches(d domain.Donor) bool {
	if q := strings.ToLower(f.Search); q != "" {
		if !strings.Contains(strings.ToLower(d.Name), q) &&
			!strings.Contains(strings.ToLower(d.City), q) &&
			!strings.Contains(strings.ToLower(d.Region), q) {
			return false
		}
	}
	if f.BloodType != nil && d.BloodType != *f.BloodType {
		return false
	}
	if f.MaxDistance < MaxDistance && d.Distance > f.MaxDistance {
		return false
	}
	return true
}

// Apply returns the donors passing every predicate, sorted by distance
// ascending. Ties keep their input order. list is not modified.
func Apply(list []domain.Donor, f Filter) []domain.Donor {
	out := make([]domain.Donor, 0, len(list))
	for _, d := range list {
		if f.matches(d) {
			out = append(out, d)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Donor) int {
		return a.Distance - b.Distance
	})
	return out
}

// ParseFilter reads q, blood_type, distance and date. Anything unparsable is
// left at its default.
func ParseFilter(v url.Values) Filter {
	f := DefaultFilter()
	f.Search = strings.TrimSpace(v.Get("q"))

	if bt, ok := domain.ParseBloodType(plusFromQuery(v.Get("blood_type"))); ok {
		f.BloodType = &bt
	}

	if raw := v.Get("distance"); raw != "" {
		if d, err := strconv.Atoi(raw); err == nil && d >= MinDistance && d <= MaxDistance {
			f.MaxDistance = d
		}
	}

	if raw := v.Get("date"); raw != "" {
		if t, err := time.Parse(dateLayout, raw); err == nil {
			f.Date = &t
		}
	}
	return f
}

// Values is the inverse of ParseFilter, used to build links that keep the
// current filter.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	if f.BloodType != nil {
		v.Set("blood_type", string(*f.BloodType))
	}
	if f.MaxDistance < MaxDistance {
		v.Set("distance", strconv.Itoa(f.MaxDistance))
	}
	if f.Date != nil {
		v.Set("date", f.Date.Format(dateLayout))
	}
	return v
}

// plusFromQuery undoes the "+" to space decoding of hand-typed links like
// ?blood_type=O+.
func plusFromQuery(s string) string {
	s = strings.TrimLeft(s, " ")
	if strings.HasSuffix(s, " ") {
		return strings.TrimRight(s, " ") + "+"
	}
	return s
}
