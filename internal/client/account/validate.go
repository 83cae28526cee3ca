package account

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/notekeeper/internal/common"
)

// emailPattern follows the usual mobile-platform address check: a local part,
// "@", and a dotted domain.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`)

// Field names an input of the login and sign-up forms.
type Field string

const (
	FieldEmail        Field = "email"
	FieldPassword     Field = "password"
	FieldConfirmation Field = "confirmation"
)

// ValidationError lists every form field that failed local validation, in
// form order.
type ValidationError struct {
	Fields []Field
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, string(f))
	}
	return "invalid " + strings.Join(names, ", ")
}

// Has reports whether f failed.
func (e *ValidationError) Has(f Field) bool {
	for _, x := range e.Fields {
		if x == f {
			return true
		}
	}
	return false
}

// message is the toast for the first failing field.
func (e *ValidationError) message() string {
	switch e.Fields[0] {
	case FieldEmail:
		return "Invalid email address"
	case FieldPassword:
		return "Password must be at least 6 characters"
	default:
		return "Passwords do not match"
	}
}

func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidatePassword(password string) bool {
	return utf8.RuneCountInString(password) >= common.MinPasswordLength
}

// validate checks the form. confirm is nil for forms without a confirmation
// field.
func validate(email, password string, confirm *string) *ValidationError {
	var fields []Field
	if !ValidateEmail(email) {
		fields = append(fields, FieldEmail)
	}
	if !ValidatePassword(password) {
		fields = append(fields, FieldPassword)
	}
	if confirm != nil && *confirm != password {
		fields = append(fields, FieldConfirmation)
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
