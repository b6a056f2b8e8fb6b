package validation

import (
	"errors"
	"fmt"
	"net/http"
)

// MaxFormSize bounds every urlencoded form the site accepts. The largest one
// is a blood request with a 5000 character description.
const MaxFormSize int64 = 64 << 10

// ParseForm caps the body at maxSize and parses the form.
//
// When the limit is hit MaxBytesReader stops reading and the connection is
// closed, so browsers may show a reset instead of the error page.
func ParseForm(w http.ResponseWriter, r *http.Request, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: limit is %d bytes", ErrPayloadTooLarge, maxErr.Limit)
		}
		return fmt.Errorf("failed to parse form: %w", err)
	}
	return nil
}
