// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// Pagination bounds for contact listings. Requests above MaxPageSize are
// clamped, non-positive limits fall back to DefaultPageSize.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MaxFieldLen is the upper bound on name, email and phone fields.
const MaxFieldLen = 50

// ClampPage normalises a requested page: non-positive limits fall back to
// DefaultPageSize, oversized limits clamp to MaxPageSize, negative offsets
// become zero. Every ContactRepository implementation applies it, so hostile
// paging values can never reach the backend.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Contact represents a single address-book entry owned by one user.
type Contact struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ContactInput carries the caller-supplied fields for a new contact.
type ContactInput struct {
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Birthday  *time.Time `json:"birthday"`
	Notes     string     `json:"notes"`
}

// ContactPatch is a partial update: nil means "leave unchanged", a non-nil
// pointer means "set to this value". Distinguishing absent from empty is what
// makes partial updates correct.
type ContactPatch struct {
	FirstName *string    `json:"firstName"`
	LastName  *string    `json:"lastName"`
	Email     *string    `json:"email"`
	Phone     *string    `json:"phone"`
	Birthday  *time.Time `json:"birthday"`
	Notes     *string    `json:"notes"`
}

// Empty reports whether the patch carries no fields at all.
func (p ContactPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.Phone == nil && p.Birthday == nil && p.Notes == nil
}

// ContactRepository is the port for contact persistence. Every operation is
// scoped to the owning user's id; a contact belonging to another user behaves
// exactly as if it did not exist.
type ContactRepository interface {
	ListContacts(ctx context.Context, userID int64, limit, offset int) ([]Contact, error)
	GetContact(ctx context.Context, userID, id int64) (*Contact, error)
	CreateContact(ctx context.Context, userID int64, input ContactInput) (*Contact, error)
	UpdateContact(ctx context.Context, userID, id int64, patch ContactPatch) (*Contact, error)
	RemoveContact(ctx context.Context, userID, id int64) (*Contact, error)
	SearchContacts(ctx context.Context, userID int64, query string) ([]Contact, error)
	UpcomingBirthdays(ctx context.Context, userID int64, today time.Time) ([]Contact, error)
}
