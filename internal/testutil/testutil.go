// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/userhub/userhub/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// FixedClock returns a clock that always reports noon UTC on the given date.
func FixedClock(date string) func() time.Time {
	d := model.MustParseDate(date)
	now := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

// Today returns the current calendar date in the local time zone.
func Today() model.Date {
	return model.DateOf(time.Now())
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}

// DatePtr parses a YYYY-MM-DD date and returns a pointer to it.
func DatePtr(s string) *model.Date {
	d := model.MustParseDate(s)
	return &d
}

// NewUser returns a record with the mandatory fields set and empty optional
// fields, without an id.
func NewUser(email, firstName, lastName, birthday string) model.User {
	return model.User{
		Email:       email,
		FirstName:   firstName,
		LastName:    lastName,
		Birthday:    DatePtr(birthday),
		Address:     StrPtr(""),
		PhoneNumber: StrPtr(""),
	}
}

// ValidUser returns a record that passes validation with an 18 year minimum age
// on any date after 2018-04-27.
func ValidUser() model.User {
	return NewUser("test@example.com", "Test", "Testov", "2000-04-27")
}
