package utils

import (
	"unicode/utf8"

	"github.com/bloodlink-dev/bloodlink/shared/errors"
)

const (
	MaxNameLen        = 100
	MaxPlaceLen       = 100
	MaxTitleLen       = 120
	MaxDescriptionLen = 5_000
	MinAge            = 16
	MaxAge            = 100
)

// Length returns a 400 if s is longer than max runes.
func Length(field, s string, max int) error {
	if utf8.RuneCountInString(s) > max {
		return errors.BadRequest(field + " is too long")
	}
	return nil
}

func Required(field, s string) error {
	if s == "" {
		return errors.BadRequest(field + " is required")
	}
	return nil
}

func Age(age *int) error {
	if age != nil && (*age < MinAge || *age > MaxAge) {
		return errors.BadRequest("Age must be between 16 and 100")
	}
	return nil
}
