package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"contactbook/internal/domain"
)

const contactCols = "id, user_id, first_name, last_name, email, phone, birthday, notes, created_at"

// ListContacts returns one id-ascending page of the user's contacts.
func (d *DB) ListContacts(ctx context.Context, userID int64, limit, offset int) ([]domain.Contact, error) {
	limit, offset = domain.ClampPage(limit, offset)
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+contactCols+" FROM contacts WHERE user_id = $1 ORDER BY id ASC LIMIT $2 OFFSET $3;",
		userID, limit, offset)
	if err != nil {
		return nil, mapError(err)
	}
	return collectContacts(rows, limit)
}

// GetContact returns the contact with the given id if the user owns it.
// Absent and other-owner rows are indistinguishable: both are ErrNotFound.
func (d *DB) GetContact(ctx context.Context, userID, id int64) (*domain.Contact, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+contactCols+" FROM contacts WHERE id = $1 AND user_id = $2;", id, userID)
	c, err := scanContact(row)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// CreateContact inserts a new contact owned by the user and returns it with
// its assigned id.
func (d *DB) CreateContact(ctx context.Context, userID int64, input domain.ContactInput) (*domain.Contact, error) {
	var c *domain.Contact
	err := d.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			"INSERT INTO contacts (user_id, first_name, last_name, email, phone, birthday, notes, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING "+contactCols+";",
			userID, input.FirstName, input.LastName, input.Email, input.Phone,
			input.Birthday, input.Notes, time.Now().UTC())
		var err error
		c, err = scanContact(row)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// UpdateContact applies the non-nil patch fields to the owned contact and
// returns the updated row. The filter and the update are one statement so the
// ownership check can never be separated from the write.
func (d *DB) UpdateContact(ctx context.Context, userID, id int64, patch domain.ContactPatch) (*domain.Contact, error) {
	if patch.Empty() {
		return d.GetContact(ctx, userID, id)
	}

	set := make([]string, 0, 6)
	args := make([]any, 0, 8)
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Birthday != nil {
		add("birthday", *patch.Birthday)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	args = append(args, id, userID)
	query := fmt.Sprintf(
		"UPDATE contacts SET %s WHERE id = $%d AND user_id = $%d RETURNING %s;",
		strings.Join(set, ", "), len(args)-1, len(args), contactCols)

	var c *domain.Contact
	err := d.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		c, err = scanContact(tx.QueryRowContext(ctx, query, args...))
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// RemoveContact deletes the owned contact and returns its last state.
func (d *DB) RemoveContact(ctx context.Context, userID, id int64) (*domain.Contact, error) {
	var c *domain.Contact
	err := d.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			"DELETE FROM contacts WHERE id = $1 AND user_id = $2 RETURNING "+contactCols+";", id, userID)
		var err error
		c, err = scanContact(row)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

// SearchContacts returns the user's contacts whose first name, last name or
// email contains query, case-insensitively. An empty query matches every
// owned contact.
func (d *DB) SearchContacts(ctx context.Context, userID int64, query string) ([]domain.Contact, error) {
	pattern := "%" + escapeLike(query) + "%"
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+contactCols+" FROM contacts WHERE user_id = $1 AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2) ORDER BY id ASC;",
		userID, pattern)
	if err != nil {
		return nil, mapError(err)
	}
	return collectContacts(rows, 0)
}

// UpcomingBirthdays returns the user's contacts whose birthday falls within
// the seven-day window anchored at today, soonest first. Month/day matching
// and year wraparound live in the domain package; the query only narrows to
// rows that have a birthday at all.
func (d *DB) UpcomingBirthdays(ctx context.Context, userID int64, today time.Time) ([]domain.Contact, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+contactCols+" FROM contacts WHERE user_id = $1 AND birthday IS NOT NULL ORDER BY id ASC;",
		userID)
	if err != nil {
		return nil, mapError(err)
	}
	contacts, err := collectContacts(rows, 0)
	if err != nil {
		return nil, err
	}
	return domain.UpcomingBirthdays(contacts, today), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(row scanner) (*domain.Contact, error) {
	var c domain.Contact
	var birthday sql.NullTime
	var notes sql.NullString
	err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email,
		&c.Phone, &birthday, &notes, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if birthday.Valid {
		t := birthday.Time
		c.Birthday = &t
	}
	c.Notes = notes.String
	return &c, nil
}

func collectContacts(rows *sql.Rows, sizeHint int) ([]domain.Contact, error) {
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Contact, 0, sizeHint)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, mapError(err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// mapError translates driver failures into the domain taxonomy at the
// repository boundary. Nothing is swallowed: unexpected failures wrap
// ErrBackend with the cause attached.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Constraint)
	}
	return fmt.Errorf("%w: %w", domain.ErrBackend, err)
}

// escapeLike neutralises LIKE metacharacters so a query string is always
// matched literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
