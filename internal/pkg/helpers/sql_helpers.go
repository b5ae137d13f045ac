package helpers

import (
	"database/sql"
	"strings"
)

// TrimToNil trims s and returns nil when nothing is left, so optional
// columns store NULL instead of empty strings.
func TrimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Int64Ptr returns a pointer to i.
func Int64Ptr(i int64) *int64 {
	return &i
}

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 {
	return &f
}

// Deref returns the value behind s or the empty string.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NullStringValue returns the string held by ns, or "" when it is NULL.
func NullStringValue(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

// BoolToInt converts a flag to the 0/1 integer stored in flag columns.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
