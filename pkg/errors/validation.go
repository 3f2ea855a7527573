package errors

import (
	"math"
	"regexp"
	"slices"
	"strings"
)

// MaxDimension bounds image width and height. Larger renders need more
// histogram memory than a single process should take on by accident.
const MaxDimension = 16384

// ValidateDimensions checks an output size.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidFlame, "size must be positive, got %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return New(ErrCodeInvalidFlame, "size %dx%d exceeds maximum %d", width, height, MaxDimension)
	}
	return nil
}

// ValidateFinite checks that a numeric setting is neither NaN nor infinite.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidFlame, "%s must be finite, got %v", field, v)
	}
	return nil
}

// ValidatePositive checks that a numeric setting is finite and above zero.
func ValidatePositive(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidFlame, "%s must be positive, got %v", field, v)
	}
	return nil
}

// identifierRegex matches variation, parameter, and palette names.
var identifierRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateIdentifier checks a variation, parameter, or palette name.
// Names are lowercase, start with a letter, and are at most 64 characters.
func ValidateIdentifier(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "%s name cannot be empty", kind)
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "%s name too long (max 64 characters)", kind)
	}
	if !identifierRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid %s name: %q", kind, name)
	}
	return nil
}

// ValidateFormat checks that format is one of valid.
func ValidateFormat(format string, valid []string) error {
	if !slices.Contains(valid, format) {
		return New(ErrCodeInvalidFormat, "invalid format: %s (must be %s)", format, strings.Join(valid, ", "))
	}
	return nil
}
