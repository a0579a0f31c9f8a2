package flow

import (
	"regexp"
	"strings"
)

// PlateLength is the length of a licence plate without separators.
const PlateLength = 7

var (
	platePattern  = regexp.MustCompile(`^[A-Z]{2}[0-9]{3}[A-Z]{2}$`)
	plateStripper = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// NormalizePlate strips separators and upper-cases the input.
func NormalizePlate(input string) string {
	return strings.ToUpper(plateStripper.ReplaceAllString(input, ""))
}

// PlateField holds the licence plate typed on the brand stage. The format is
// only checked once the plate is complete.
type PlateField struct {
	value string
	err   string
}

// Set replaces the field content. Input longer than a plate once normalized
// is ignored.
func (f *PlateField) Set(input string) {
	value := NormalizePlate(input)
	if len(value) > PlateLength {
		return
	}
	f.value = value
	f.err = ""
	if len(value) == PlateLength && !platePattern.MatchString(value) {
		f.err = msgPlateFormat
	}
}

func (f *PlateField) Value() string { return f.value }

// Error is the format error, empty when none.
func (f *PlateField) Error() string { return f.err }

// Valid reports whether the field holds a complete, well-formed plate.
func (f *PlateField) Valid() bool {
	return len(f.value) == PlateLength && f.err == ""
}

// Submit reports the outcome of a plate search. The catalog exposes no plate
// lookup, so a well-formed plate yields the unavailable notice.
func (f *PlateField) Submit() string {
	if !f.Valid() {
		if f.err != "" {
			return f.err
		}
		return msgPlateFormat
	}
	return msgPlateUnavailable
}

// Reset empties the field.
func (f *PlateField) Reset() {
	f.value = ""
	f.err = ""
}
