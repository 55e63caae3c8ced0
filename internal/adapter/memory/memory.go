// Package memory implements in-memory repositories for development and testing.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"contactbook/internal/domain"
)

// DB implements the domain repository interfaces against in-process state.
// Semantics mirror the postgres adapter: ownership hiding, per-owner email
// uniqueness, id-ordered listings.
type DB struct {
	mu       sync.Mutex
	contacts []domain.Contact
	users    []*domain.User
	sessions map[string]*domain.Session

	contactIDCounter int64
	userIDCounter    int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

var (
	_ domain.ContactRepository = (*DB)(nil)
	_ domain.UserRepository    = (*DB)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

// --- ContactRepository ---

// ListContacts returns one id-ascending page of the user's contacts.
func (db *DB) ListContacts(ctx context.Context, userID int64, limit, offset int) ([]domain.Contact, error) {
	limit, offset = domain.ClampPage(limit, offset)

	db.mu.Lock()
	defer db.mu.Unlock()

	owned := db.ownedLocked(userID)
	if offset >= len(owned) {
		return []domain.Contact{}, nil
	}
	owned = owned[offset:]
	if len(owned) > limit {
		owned = owned[:limit]
	}
	return owned, nil
}

// GetContact returns the owned contact or ErrNotFound, regardless of whether
// the id is absent or belongs to someone else.
func (db *DB) GetContact(ctx context.Context, userID, id int64) (*domain.Contact, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if i := db.indexLocked(userID, id); i >= 0 {
		c := db.contacts[i]
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

// CreateContact stores a new contact and returns it with its assigned id.
func (db *DB) CreateContact(ctx context.Context, userID int64, input domain.ContactInput) (*domain.Contact, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.emailTakenLocked(userID, input.Email, 0) {
		return nil, domain.ErrConflict
	}

	db.contactIDCounter++
	c := domain.Contact{
		ID:        db.contactIDCounter,
		UserID:    userID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Birthday:  input.Birthday,
		Notes:     input.Notes,
		CreatedAt: time.Now().UTC(),
	}
	db.contacts = append(db.contacts, c)
	return &c, nil
}

// UpdateContact applies the non-nil patch fields to the owned contact.
func (db *DB) UpdateContact(ctx context.Context, userID, id int64, patch domain.ContactPatch) (*domain.Contact, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.indexLocked(userID, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	if patch.Email != nil && db.emailTakenLocked(userID, *patch.Email, id) {
		return nil, domain.ErrConflict
	}

	c := &db.contacts[i]
	if patch.FirstName != nil {
		c.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		c.LastName = *patch.LastName
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.Birthday != nil {
		b := *patch.Birthday
		c.Birthday = &b
	}
	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}
	out := *c
	return &out, nil
}

// RemoveContact deletes the owned contact and returns its last state.
func (db *DB) RemoveContact(ctx context.Context, userID, id int64) (*domain.Contact, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.indexLocked(userID, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	c := db.contacts[i]
	db.contacts = append(db.contacts[:i], db.contacts[i+1:]...)
	return &c, nil
}

// SearchContacts returns the user's contacts whose first name, last name or
// email contains query, case-insensitively. An empty query matches all.
func (db *DB) SearchContacts(ctx context.Context, userID int64, query string) ([]domain.Contact, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	q := strings.ToLower(query)
	out := []domain.Contact{}
	for _, c := range db.ownedLocked(userID) {
		if strings.Contains(strings.ToLower(c.FirstName), q) ||
			strings.Contains(strings.ToLower(c.LastName), q) ||
			strings.Contains(strings.ToLower(c.Email), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

// UpcomingBirthdays returns owned contacts with a birthday in the seven-day
// window anchored at today, soonest first.
func (db *DB) UpcomingBirthdays(ctx context.Context, userID int64, today time.Time) ([]domain.Contact, error) {
	db.mu.Lock()
	owned := db.ownedLocked(userID)
	db.mu.Unlock()

	return domain.UpcomingBirthdays(owned, today), nil
}

// ownedLocked returns copies of the user's contacts in id order.
func (db *DB) ownedLocked(userID int64) []domain.Contact {
	out := []domain.Contact{}
	for _, c := range db.contacts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (db *DB) indexLocked(userID, id int64) int {
	for i, c := range db.contacts {
		if c.ID == id && c.UserID == userID {
			return i
		}
	}
	return -1
}

// emailTakenLocked reports whether another contact of the same owner already
// uses the email. exceptID skips the contact being updated.
func (db *DB) emailTakenLocked(userID int64, email string, exceptID int64) bool {
	for _, c := range db.contacts {
		if c.UserID == userID && c.Email == email && c.ID != exceptID {
			return true
		}
	}
	return false
}

// --- UserRepository ---

// GetByUsername retrieves a user by username. Returns nil when not found.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID. Returns nil when not found.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, domain.ErrConflict
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// --- SessionRepository ---

// SessionRepo implements session operations on the in-memory DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create stores a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token. Returns nil when not found.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	return r.db.sessions[token], nil
}

// Delete removes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired removes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	for token, s := range r.db.sessions {
		if s.ExpiresAt.Before(now) {
			delete(r.db.sessions, token)
		}
	}
	return nil
}
