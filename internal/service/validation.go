package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/userhub/userhub/internal/model"
)

// DefaultMinAge is the adult age used when none is configured.
const DefaultMinAge = 18

// Violation messages.
const (
	MsgEmailRequired     = "email is required"
	MsgEmailInvalid      = "invalid email"
	MsgFirstNameRequired = "firstName is required"
	MsgLastNameRequired  = "lastName is required"
	MsgBirthdayRequired  = "birthday is required"
	MsgBirthdayNotPast   = "date of birth must be earlier than current date"
	MsgNotAdult          = "user must be adult"
)

// Field names reported in violations. They match the JSON field names.
const (
	FieldEmail     = "email"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldBirthday  = "birthday"
)

// emailRegex is the WHATWG "valid e-mail address" production: a local part
// without whitespace, "@", and dot-separated DNS labels.
var emailRegex = regexp.MustCompile(
	"^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$",
)

// Violation is one failed rule. Field is empty for rules about the record as a whole.
type Violation struct {
	Field   string
	Message string
}

// String renders the violation as "field: message", or just the message.
func (v Violation) String() string {
	if v.Field == "" {
		return v.Message
	}
	return v.Field + ": " + v.Message
}

// Validator checks candidate records against field and business rules.
type Validator struct {
	minAge int
	now    func() time.Time
}

// NewValidator creates a Validator. now supplies the current instant; its
// calendar date in its own location is "today".
func NewValidator(minAge int, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{minAge: minAge, now: now}
}

// Validate returns every rule u violates, or nil if it is valid.
// Rules are not short-circuited.
func (v *Validator) Validate(u model.User) []Violation {
	var violations []Violation
	today := model.DateOf(v.now())

	switch {
	case isBlank(u.Email):
		violations = append(violations, Violation{FieldEmail, MsgEmailRequired})
	case !emailRegex.MatchString(u.Email):
		violations = append(violations, Violation{FieldEmail, MsgEmailInvalid})
	}

	if isBlank(u.FirstName) {
		violations = append(violations, Violation{FieldFirstName, MsgFirstNameRequired})
	}

	if isBlank(u.LastName) {
		violations = append(violations, Violation{FieldLastName, MsgLastNameRequired})
	}

	if u.Birthday == nil {
		violations = append(violations, Violation{FieldBirthday, MsgBirthdayRequired})
		return violations
	}

	if !u.Birthday.Before(today) {
		violations = append(violations, Violation{FieldBirthday, MsgBirthdayNotPast})
	}

	if !v.isAdult(*u.Birthday, today) {
		violations = append(violations, Violation{Message: MsgNotAdult})
	}

	return violations
}

// IsAdult reports whether someone born on birthday is older than the minimum
// age today: the minAge anniversary must be strictly before today.
func (v *Validator) IsAdult(birthday model.Date) bool {
	return v.isAdult(birthday, model.DateOf(v.now()))
}

func (v *Validator) isAdult(birthday, today model.Date) bool {
	return birthday.AddYears(v.minAge).Before(today)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
