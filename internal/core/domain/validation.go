package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// FieldError holds every failure message reported for one input field,
// in the order they were reported.
type FieldError struct {
	Field    string
	Messages []string
}

// ValidationErrors collects field-level validation failures.
// Field order follows first report; message order is preserved per field.
type ValidationErrors struct {
	fields []FieldError
}

// Add records a failure message for field.
func (v *ValidationErrors) Add(field, message string) {
	for i := range v.fields {
		if v.fields[i].Field == field {
			v.fields[i].Messages = append(v.fields[i].Messages, message)
			return
		}
	}
	v.fields = append(v.fields, FieldError{Field: field, Messages: []string{message}})
}

// Fields returns the collected failures.
func (v *ValidationErrors) Fields() []FieldError {
	if v == nil {
		return nil
	}
	return v.fields
}

// Empty reports whether no failure has been recorded.
func (v *ValidationErrors) Empty() bool {
	return v == nil || len(v.fields) == 0
}

// Err returns v as an error, or nil when nothing was recorded.
func (v *ValidationErrors) Err() error {
	if v.Empty() {
		return nil
	}
	return v
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	parts := make([]string, 0, len(v.Fields()))
	for _, f := range v.Fields() {
		parts = append(parts, f.Field+": "+strings.Join(f.Messages, ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold for validation failures.
func (v *ValidationErrors) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == ErrValidation.Code
}

// CheckLength records a failure when s is not between min and max characters.
func (v *ValidationErrors) CheckLength(field, s string, min, max int) {
	n := utf8.RuneCountInString(s)
	if n < min || n > max {
		v.Add(field, fmt.Sprintf("must be between %d and %d characters", min, max))
	}
}

// CheckOptionalLength is CheckLength for nullable text fields.
func (v *ValidationErrors) CheckOptionalLength(field string, s *string, min, max int) {
	if s != nil {
		v.CheckLength(field, *s, min, max)
	}
}

// CheckPattern records a failure when s does not match re.
func (v *ValidationErrors) CheckPattern(field, s string, re *regexp.Regexp, message string) {
	if !re.MatchString(s) {
		v.Add(field, message)
	}
}

// Input bounds.
const (
	UsernameMessage = "only letters a-z, A-Z, numbers, - and _ are allowed"

	PasswordMinLength = 10
	PasswordMaxLength = 200

	SessionNameMaxLength  = 30
	ExerciseNameMaxLength = 50
	TextMaxLength         = 10000
)

// UsernamePattern is the only accepted shape of a username.
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,20}$`)

// ValidateUsername records username failures under field.
func (v *ValidationErrors) ValidateUsername(field, username string) {
	v.CheckPattern(field, username, UsernamePattern, UsernameMessage)
}

// ValidatePassword records password failures under field.
func (v *ValidationErrors) ValidatePassword(field, password string) {
	v.CheckLength(field, password, PasswordMinLength, PasswordMaxLength)
}
