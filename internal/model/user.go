// Package model defines domain entities for the application.
package model

import "github.com/google/uuid"

// User is a stored user record.
//
// Birthday, Address and PhoneNumber are pointers so that "absent" can be told
// apart from a present zero value.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Birthday    *Date     `json:"birthday,omitempty"`
	Address     *string   `json:"address,omitempty"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
}

// HasID reports whether an id has been assigned.
func (u *User) HasID() bool {
	return u.ID != uuid.Nil
}

// Clone returns a deep copy of u. The copy shares no pointers with u.
func (u User) Clone() User {
	out := u
	if u.Birthday != nil {
		b := *u.Birthday
		out.Birthday = &b
	}
	out.Address = cloneString(u.Address)
	out.PhoneNumber = cloneString(u.PhoneNumber)
	return out
}

// UserPatch is a partial update. A nil field was not supplied by the caller and
// leaves the existing value untouched; a non-nil field replaces it, even when it
// points at an empty string.
type UserPatch struct {
	Email       *string
	FirstName   *string
	LastName    *string
	Birthday    *Date
	Address     *string
	PhoneNumber *string
}

// IsEmpty reports whether the patch supplies no fields at all.
func (p UserPatch) IsEmpty() bool {
	return p.Email == nil && p.FirstName == nil && p.LastName == nil &&
		p.Birthday == nil && p.Address == nil && p.PhoneNumber == nil
}

// Apply overlays the supplied fields of p onto a copy of u and returns it.
// u itself is not modified.
func (p UserPatch) Apply(u User) User {
	out := u.Clone()
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.FirstName != nil {
		out.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		out.LastName = *p.LastName
	}
	if p.Birthday != nil {
		b := *p.Birthday
		out.Birthday = &b
	}
	if p.Address != nil {
		out.Address = cloneString(p.Address)
	}
	if p.PhoneNumber != nil {
		out.PhoneNumber = cloneString(p.PhoneNumber)
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
