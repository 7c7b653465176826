// Package validation holds inline, per-field form errors.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// emailPattern is the loose email check used by the sign-in and sign-up forms.
var emailPattern = regexp.MustCompile(`(?i)^\S+@\S+$`)

// Errors maps a field name to the message shown next to it.
type Errors map[string]string

func (e Errors) Error() string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Required records msg for field when value is blank. It reports whether value was present.
func (e Errors) Required(field, value, msg string) bool {
	if strings.TrimSpace(value) == "" {
		e[field] = msg
		return false
	}
	return true
}

// Err returns nil when there are no errors.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}
