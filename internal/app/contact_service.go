// Package app holds the application services and business logic.
package app

import (
	"context"
	"strings"
	"time"

	"contactbook/internal/domain"
)

// ContactService encapsulates the contact-management use cases. It trusts the
// caller-supplied user id completely; authentication happens upstream.
type ContactService struct {
	repo domain.ContactRepository
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo domain.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// List returns one page of the user's contacts in id order. Limits are
// clamped to [1, MaxPageSize], defaulting to DefaultPageSize; negative
// offsets become zero.
func (s *ContactService) List(ctx context.Context, userID int64, limit, offset int) ([]domain.Contact, error) {
	limit, offset = domain.ClampPage(limit, offset)
	return s.repo.ListContacts(ctx, userID, limit, offset)
}

// Get returns the user's contact with the given id.
func (s *ContactService) Get(ctx context.Context, userID, id int64) (*domain.Contact, error) {
	return s.repo.GetContact(ctx, userID, id)
}

// Create validates and stores a new contact for the user.
func (s *ContactService) Create(ctx context.Context, userID int64, input domain.ContactInput) (*domain.Contact, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.repo.CreateContact(ctx, userID, input)
}

// Update applies a partial update to the user's contact. Only fields present
// in the patch change.
func (s *ContactService) Update(ctx context.Context, userID, id int64, patch domain.ContactPatch) (*domain.Contact, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	return s.repo.UpdateContact(ctx, userID, id, patch)
}

// Remove deletes the user's contact and returns its last state.
func (s *ContactService) Remove(ctx context.Context, userID, id int64) (*domain.Contact, error) {
	return s.repo.RemoveContact(ctx, userID, id)
}

// Search returns the user's contacts matching query against first name, last
// name or email. An empty query matches every owned contact.
func (s *ContactService) Search(ctx context.Context, userID int64, query string) ([]domain.Contact, error) {
	return s.repo.SearchContacts(ctx, userID, query)
}

// UpcomingBirthdays returns the user's contacts with a birthday in the next
// seven days, anchored at the current date.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, userID int64) ([]domain.Contact, error) {
	return s.repo.UpcomingBirthdays(ctx, userID, time.Now())
}

func validateInput(input domain.ContactInput) error {
	fields := map[string]string{
		"firstName": input.FirstName,
		"lastName":  input.LastName,
		"email":     input.Email,
		"phone":     input.Phone,
	}
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			return &domain.ValidationError{Field: name, Reason: "must not be empty"}
		}
		if len(v) > domain.MaxFieldLen {
			return &domain.ValidationError{Field: name, Reason: "too long"}
		}
	}
	return nil
}

func validatePatch(patch domain.ContactPatch) error {
	fields := map[string]*string{
		"firstName": patch.FirstName,
		"lastName":  patch.LastName,
		"email":     patch.Email,
		"phone":     patch.Phone,
	}
	for name, v := range fields {
		if v == nil {
			continue
		}
		if strings.TrimSpace(*v) == "" {
			return &domain.ValidationError{Field: name, Reason: "must not be empty"}
		}
		if len(*v) > domain.MaxFieldLen {
			return &domain.ValidationError{Field: name, Reason: "too long"}
		}
	}
	return nil
}
