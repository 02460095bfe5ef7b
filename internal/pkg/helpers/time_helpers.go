package helpers

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the wire format used on every HTTP boundary, including the
// stats protocol: no timezone, no fractional seconds.
const DateTimeLayout = "2006-01-02 15:04:05"

// DateTime is a time.Time that marshals to the fixed wire format.
type DateTime time.Time

// NewDateTime truncates t to second precision, matching the wire format.
func NewDateTime(t time.Time) DateTime {
	return DateTime(t.Truncate(time.Second))
}

// Time returns the underlying time.Time.
func (d DateTime) Time() time.Time {
	return time.Time(d)
}

// IsZero reports whether d is the zero time.
func (d DateTime) IsZero() bool {
	return time.Time(d).IsZero()
}

// MarshalJSON implements json.Marshaler.
func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(DateTimeLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = DateTime(time.Time{})
		return nil
	}
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return fmt.Errorf("invalid datetime %q: expected format %s", s, DateTimeLayout)
	}
	*d = DateTime(t)
	return nil
}

// String implements fmt.Stringer.
func (d DateTime) String() string {
	return time.Time(d).Format(DateTimeLayout)
}

// ParseDateTime parses a wire-format timestamp.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid datetime %q: expected format %s", s, DateTimeLayout)
	}
	return t, nil
}

// FormatDateTime formats t in the wire format.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}
