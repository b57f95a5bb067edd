// Package inputval validates user-submitted form fields.
//
// Each form has an explicit validation function returning a Result: either
// ok or a list of field errors, checked in field order. Handlers re-render
// the originating form with Result.First() when validation fails; nothing is
// persisted on a validation failure.
package inputval

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/studyhub/internal/app/system/authutil"
)

// FieldError is a single validation failure tied to a form field.
type FieldError struct {
	Field   string
	Message string
}

// Result collects validation failures for one form submission.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any field failed validation.
func (r Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or "" when validation passed.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

func (r *Result) add(field, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// IsValidEmail reports whether s looks like a plain RFC 5322 address.
// Display-name forms ("Name <a@b>") and dotted edge cases the parser lets
// through are rejected.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	local, domain, found := strings.Cut(s, "@")
	if !found || local == "" || domain == "" {
		return false
	}
	for _, part := range []string{local, domain} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return true
}

// Field limits, matching the stored column widths.
const (
	UsernameMin    = 3
	UsernameMax    = 60
	EmailMax       = 120
	TitleMax       = 120
	SubjectMax     = 80
	DescriptionMax = 1000
)

// ValidateRegistration checks the registration form fields.
func ValidateRegistration(username, email, password, confirm string) Result {
	var r Result
	switch n := utf8.RuneCountInString(username); {
	case n == 0:
		r.add("username", "Username is required.")
	case n < UsernameMin || n > UsernameMax:
		r.add("username", fmt.Sprintf("Username must be between %d and %d characters.", UsernameMin, UsernameMax))
	}
	switch {
	case email == "":
		r.add("email", "Email is required.")
	case utf8.RuneCountInString(email) > EmailMax:
		r.add("email", fmt.Sprintf("Email must be at most %d characters.", EmailMax))
	case !IsValidEmail(email):
		r.add("email", "Please enter a valid email address.")
	}
	switch {
	case password == "":
		r.add("password", "Password is required.")
	case authutil.ValidatePassword(password) != nil:
		r.add("password", fmt.Sprintf("Password must be at least %d characters.", authutil.MinPasswordLength))
	}
	if confirm != password {
		r.add("confirm", "Passwords do not match.")
	}
	return r
}

// ValidateLogin checks the login form fields.
func ValidateLogin(email, password string) Result {
	var r Result
	switch {
	case email == "":
		r.add("email", "Email is required.")
	case !IsValidEmail(email):
		r.add("email", "Please enter a valid email address.")
	}
	if password == "" {
		r.add("password", "Password is required.")
	}
	return r
}

// ValidateCreateGroup checks the create-group form fields. The meeting date
// and time are not validated here: an unparseable combination stores no
// timestamp rather than failing the form.
func ValidateCreateGroup(title, subject, description string) Result {
	var r Result
	switch {
	case title == "":
		r.add("title", "Title is required.")
	case utf8.RuneCountInString(title) > TitleMax:
		r.add("title", fmt.Sprintf("Title must be at most %d characters.", TitleMax))
	}
	switch {
	case subject == "":
		r.add("subject", "Subject is required.")
	case utf8.RuneCountInString(subject) > SubjectMax:
		r.add("subject", fmt.Sprintf("Subject must be at most %d characters.", SubjectMax))
	}
	if utf8.RuneCountInString(description) > DescriptionMax {
		r.add("description", fmt.Sprintf("Description must be at most %d characters.", DescriptionMax))
	}
	return r
}
