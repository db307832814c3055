package leadmagnet

import (
	"regexp"
	"sort"
	"strings"
)

// Form field names, as sent by the lead-capture form
const (
	FieldFullName = "fullName"
	FieldEmail    = "email"
)

// Validation messages
const (
	MsgFullNameRequired = "Full name is required"
	MsgEmailRequired    = "Email is required"
	MsgEmailInvalid     = "Please enter a valid email address"

	MsgRequiredFields     = "Full name and email are required"
	MsgInvalidEmailFormat = "Invalid email format"
)

// emailRegexp is a UX guard, not an RFC 5322 parser.
var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationErrors maps a field name to a human-readable message
type ValidationErrors map[string]string

// Validate checks a lead-capture submission. It returns nil when the input is valid.
func Validate(fullName, email string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(fullName) == "" {
		errs[FieldFullName] = MsgFullNameRequired
	}

	// A blank but non-empty email is a malformed address, not a missing one.
	if email == "" {
		errs[FieldEmail] = MsgEmailRequired
	} else if !ValidEmail(email) {
		errs[FieldEmail] = MsgEmailInvalid
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidEmail reports whether email looks like local@domain.tld
func ValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

// Message returns the single message reported by the API
func (ve ValidationErrors) Message() string {
	if _, ok := ve[FieldFullName]; ok {
		return MsgRequiredFields
	}
	if ve[FieldEmail] == MsgEmailRequired {
		return MsgRequiredFields
	}
	return MsgInvalidEmailFormat
}

func (ve ValidationErrors) Error() string {
	fields := make([]string, 0, len(ve))
	for f := range ve {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+ve[f])
	}
	return strings.Join(msgs, "; ")
}
