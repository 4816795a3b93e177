package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const userColumns = `id, email, password_hash, first_name, last_name, middle_name, phone, photo_url, created_at, updated_at`

func (s *Store) CreateUser(u User) (*User, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	err := retry(func() error {
		_, err := s.db.Exec(
			`INSERT INTO users (id, email, password_hash, first_name, last_name, middle_name, phone, photo_url, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.MiddleName, u.Phone, u.PhotoURL, now, now,
		)
		return err
	})
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("insert user %q: %w", u.Email, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.GetUser(u.ID)
}

func (s *Store) GetUser(id string) (*User, error) {
	u, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(email string) (*User, error) {
	u, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", email, err)
	}
	return u, nil
}

func (s *Store) UpdateUserProfile(id, firstName, lastName, middleName, phone string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	return s.updateUser(id, func() (sql.Result, error) {
		return s.db.Exec(
			`UPDATE users SET first_name = ?, last_name = ?, middle_name = ?, phone = ?, updated_at = ? WHERE id = ?`,
			firstName, lastName, middleName, phone, now, id,
		)
	})
}

func (s *Store) SetUserPhoto(id, photoURL string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	return s.updateUser(id, func() (sql.Result, error) {
		return s.db.Exec(`UPDATE users SET photo_url = ?, updated_at = ? WHERE id = ?`, photoURL, now, id)
	})
}

func (s *Store) updateUser(id string, exec func() (sql.Result, error)) error {
	var res sql.Result
	err := retry(func() error {
		var err error
		res, err = exec()
		return err
	})
	if err != nil {
		return fmt.Errorf("update user %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update user %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	var createdAt, updatedAt string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.MiddleName, &u.Phone, &u.PhotoURL, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	u.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return u, nil
}
