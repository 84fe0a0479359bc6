package dto

import (
	"strings"
	"time"

	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
)

// DateLayout is the wire format of every date field.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value. An empty value yields nil.
func ParseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, appErrors.Validation(field, "expected YYYY-MM-DD")
	}
	return &parsed, nil
}

// ParseRequiredDate parses a YYYY-MM-DD value that must be present.
func ParseRequiredDate(field, value string) (time.Time, error) {
	parsed, err := ParseDate(field, value)
	if err != nil {
		return time.Time{}, err
	}
	if parsed == nil {
		return time.Time{}, appErrors.Validation(field, "is required")
	}
	return *parsed, nil
}

// FormatDate renders an optional date, or "" when it is nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// OptionalID treats zero and negative ids as absent. Form binding turns an empty field into 0.
func OptionalID(id *int64) *int64 {
	if id == nil || *id <= 0 {
		return nil
	}
	v := *id
	return &v
}
