// Package validate holds small field validators shared by configuration,
// record checking, and image intake.
package validate

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Rule names accepted by Rule.
const (
	RuleRequired = "required"
	RuleEmail    = "email"
	RuleNumber   = "number"
	RuleDate     = "date"
)

// ErrUnknownRule is returned by Rule for an unregistered rule name.
var ErrUnknownRule = errors.New("unknown validation rule")

// FieldError reports a value that failed a named rule.
type FieldError struct {
	Field string
	Rule  string
	Value string
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: failed %s", e.Field, e.Rule)
	}
	return fmt.Sprintf("%s: %q failed %s", e.Field, e.Value, e.Rule)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// dateLayouts are tried in order by Date.
//
//nolint:gochecknoglobals // Read-only lookup table.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	time.DateOnly,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Email reports whether s looks like an address: something@something.tld, no spaces.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Required reports whether v is present: not nil and not blank once stringified.
func Required(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return strings.TrimSpace(fmt.Sprint(v)) != ""
}

// Number reports whether s parses as a finite number.
func Number(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return false
	}
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Date reports whether s parses with one of the common date layouts.
func Date(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// FileSize reports whether size does not exceed maxSize bytes.
func FileSize(size, maxSize int64) bool {
	return size <= maxSize
}

// FileType reports whether the MIME type is in allowed. Parameters such as
// "; charset=utf-8" are ignored.
func FileType(mimeType string, allowed []string) bool {
	base, _, _ := strings.Cut(mimeType, ";")
	return slices.Contains(allowed, strings.TrimSpace(base))
}

// Positive reports whether n > 0.
func Positive(n int) bool {
	return n > 0
}

// NonNegative reports whether n >= 0.
func NonNegative(n int) bool {
	return n >= 0
}

// InRange reports whether lo <= n <= hi.
func InRange(n, lo, hi int) bool {
	return n >= lo && n <= hi
}

// OneOf reports whether s is one of choices, ignoring case.
func OneOf(s string, choices ...string) bool {
	for _, c := range choices {
		if strings.EqualFold(s, c) {
			return true
		}
	}
	return false
}

// Rule returns the string validator registered under name.
func Rule(name string) (func(string) bool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case RuleRequired:
		return func(s string) bool { return Required(s) }, nil
	case RuleEmail:
		return Email, nil
	case RuleNumber:
		return Number, nil
	case RuleDate:
		return Date, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
}

// Check runs the named rules against value and returns a FieldError for the
// first rule that fails. Optional rules (everything except required) pass on
// an empty value.
func Check(field, value string, rules ...string) error {
	for _, name := range rules {
		name = strings.ToLower(strings.TrimSpace(name))
		fn, err := Rule(name)
		if err != nil {
			return err
		}
		if name != RuleRequired && strings.TrimSpace(value) == "" {
			continue
		}
		if !fn(value) {
			return &FieldError{Field: field, Rule: name, Value: value}
		}
	}
	return nil
}
