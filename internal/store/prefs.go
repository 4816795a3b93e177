package store

import (
	"fmt"
	"time"
)

// GetPrefs returns every key stored under namespace. A namespace that was
// never written yields an empty, non-nil map.
func (s *Store) GetPrefs(namespace string) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM prefs WHERE namespace = ?`, namespace)
	if err != nil {
		return nil, fmt.Errorf("get prefs %q: %w", namespace, err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		values[k] = v
	}
	return values, rows.Err()
}

// PutPrefs upserts all values in a single transaction: either every key is
// written or none is.
func (s *Store) PutPrefs(namespace string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	err := retry(func() error {
		return s.putPrefsTx(namespace, values)
	})
	if err != nil {
		return fmt.Errorf("put prefs %q: %w", namespace, err)
	}
	return nil
}

func (s *Store) putPrefsTx(namespace string, values map[string]string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO prefs (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for k, v := range values {
		if _, err := stmt.Exec(namespace, k, v, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) DeletePrefs(namespace string) error {
	_, err := s.db.Exec(`DELETE FROM prefs WHERE namespace = ?`, namespace)
	if err != nil {
		return fmt.Errorf("delete prefs %q: %w", namespace, err)
	}
	return nil
}

func (s *Store) ListNamespaces() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT namespace FROM prefs ORDER BY namespace`)
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
