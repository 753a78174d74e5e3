// Package repository provides the user record store.
package repository

import (
	"github.com/google/uuid"

	"github.com/userhub/userhub/internal/model"
)

// Store is keyed storage for user records, safe for concurrent use.
//
// Absence is reported through return values, never as an error. Each call is
// atomic for its own id only; there is no cross-key atomicity, so a range scan
// may interleave with concurrent writes.
type Store interface {
	// Save assigns a fresh random id when u has none, then inserts or
	// overwrites the record under u.ID.
	Save(u *model.User)

	// FindByID returns a copy of the record and whether it exists.
	FindByID(id uuid.UUID) (model.User, bool)

	// Delete removes the record. Deleting an unknown id is a no-op.
	Delete(id uuid.UUID)

	// FindByBirthDateRange returns the records with from <= birthday <= to,
	// ascending by birthday. Equal birthdays keep insertion order.
	FindByBirthDateRange(from, to model.Date) []model.User

	// Clear removes every record.
	Clear()

	// Count returns the number of stored records.
	Count() int
}
