// Package normalize forces untrusted model output into the shape of a
// reference schema and strips the empty values left behind.
package normalize

import (
	"strings"
	"unicode/utf8"
)

// SanitizeFunc cleans a single field value before it is type checked.
// Implementations must be pure and must not panic.
type SanitizeFunc func(value any) any

// sanitizers maps a field name to the cleanup applied to its values.
var sanitizers = map[string]SanitizeFunc{
	"score":     stripPercent,
	"startDate": completeMonthDate,
	"endDate":   completeMonthDate,
	"issueDate": completeMonthDate,
	"socials":   requireSequence,
	"links":     requireSequence,
	"skillName": requireString,
}

// SanitizerFor returns the sanitizer registered for field, if any.
func SanitizerFor(field string) (SanitizeFunc, bool) {
	fn, ok := sanitizers[field]
	return fn, ok
}

// Sanitize applies the sanitizer registered for field to value.
// Values of fields without a sanitizer are returned unchanged.
func Sanitize(field string, value any) any {
	fn, ok := sanitizers[field]
	if !ok {
		return value
	}
	return fn(value)
}

// stripPercent turns "96%" into "96".
func stripPercent(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	return strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
}

// completeMonthDate turns a YYYY-MM string into YYYY-MM-01.
func completeMonthDate(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	if utf8.RuneCountInString(s) == 7 {
		return s + "-01"
	}
	return s
}

func requireSequence(value any) any {
	if _, ok := value.([]any); ok {
		return value
	}
	return []any{}
}

func requireString(value any) any {
	if _, ok := value.(string); ok {
		return value
	}
	return ""
}
