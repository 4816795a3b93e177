package store

import (
	"errors"
	"fmt"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createUser(t *testing.T, s *Store, id, email string) *User {
	t.Helper()
	u, err := s.CreateUser(User{
		ID:           id,
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Ivan",
		LastName:     "Petrov",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/hobbytrack.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.PutPrefs("ns", map[string]string{"k": "v"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: data survives and migration is not re-run.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, err := s2.GetPrefs("ns")
	if err != nil {
		t.Fatal(err)
	}
	if got["k"] != "v" {
		t.Fatalf("expected persisted value, got %v", got)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Prefs
// ============================================================

func TestGetPrefsEmptyNamespace(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetPrefs("missing")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil map, got %v", got)
	}
}

func TestPutPrefsUpsert(t *testing.T) {
	s := newTestStore(t)
	if err := s.PutPrefs("music", map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatal(err)
	}
	if err := s.PutPrefs("music", map[string]string{"a": "10"}); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetPrefs("music")
	if got["a"] != "10" || got["b"] != "2" {
		t.Fatalf("unexpected prefs: %v", got)
	}
}

func TestPutPrefsEmptyIsNoop(t *testing.T) {
	s := newTestStore(t)
	if err := s.PutPrefs("music", nil); err != nil {
		t.Fatal(err)
	}
	names, _ := s.ListNamespaces()
	if len(names) != 0 {
		t.Fatalf("expected no namespaces, got %v", names)
	}
}

func TestPrefsNamespaceIsolation(t *testing.T) {
	s := newTestStore(t)
	s.PutPrefs("music", map[string]string{"k": "m"})
	s.PutPrefs("sport", map[string]string{"k": "s"})

	m, _ := s.GetPrefs("music")
	sp, _ := s.GetPrefs("sport")
	if m["k"] != "m" || sp["k"] != "s" {
		t.Fatalf("namespaces leaked: music=%v sport=%v", m, sp)
	}
}

func TestPutPrefsManyKeys(t *testing.T) {
	s := newTestStore(t)
	values := make(map[string]string)
	for i := 0; i < 35; i++ {
		values[fmt.Sprintf("cell_%d", i)] = "0"
	}
	if err := s.PutPrefs("art", values); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetPrefs("art")
	if len(got) != 35 {
		t.Fatalf("expected 35 keys, got %d", len(got))
	}
}

func TestDeletePrefs(t *testing.T) {
	s := newTestStore(t)
	s.PutPrefs("games", map[string]string{"k": "v"})
	s.PutPrefs("other", map[string]string{"k": "v"})

	if err := s.DeletePrefs("games"); err != nil {
		t.Fatal(err)
	}
	names, _ := s.ListNamespaces()
	if len(names) != 1 || names[0] != "other" {
		t.Fatalf("unexpected namespaces: %v", names)
	}
}

func TestPutPrefsClosedStore(t *testing.T) {
	s, _ := NewMemory()
	s.Close()
	if err := s.PutPrefs("ns", map[string]string{"k": "v"}); err == nil {
		t.Fatal("expected error writing to closed store")
	}
}

// ============================================================
// Settings
// ============================================================

func TestDefaultSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	expected := map[string]string{
		"theme":      "dark",
		"week_start": "monday",
	}
	got := make(map[string]string)
	for _, st := range settings {
		got[st.Key] = st.Value
	}
	for k, v := range expected {
		if got[k] != v {
			t.Fatalf("setting %q = %q, want %q", k, got[k], v)
		}
	}
}

func TestSetAndGetSetting(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting("theme", "light"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetSetting("theme")
	if err != nil {
		t.Fatal(err)
	}
	if v != "light" {
		t.Fatalf("theme = %q, want light", v)
	}
}

func TestGetSettingMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteSetting(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("session_user", "abc")
	if err := s.DeleteSetting("session_user"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetSetting("session_user"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

// ============================================================
// Users
// ============================================================

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	u := createUser(t, s, "u1", "ivan@example.com")
	if u.ID != "u1" || u.FirstName != "Ivan" || u.LastName != "Petrov" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.CreatedAt.IsZero() {
		t.Fatal("created_at should be set")
	}

	byEmail, err := s.GetUserByEmail("IVAN@example.com")
	if err != nil {
		t.Fatalf("email lookup should be case-insensitive: %v", err)
	}
	if byEmail.ID != "u1" {
		t.Fatalf("got user %q, want u1", byEmail.ID)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	createUser(t, s, "u1", "ivan@example.com")

	_, err := s.CreateUser(User{ID: "u2", Email: "ivan@example.com", PasswordHash: "x", FirstName: "A", LastName: "B"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetUser("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetUserByEmail("nope@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUserProfile(t *testing.T) {
	s := newTestStore(t)
	createUser(t, s, "u1", "ivan@example.com")

	if err := s.UpdateUserProfile("u1", "Пётр", "Иванов", "Сергеевич", "+7 900"); err != nil {
		t.Fatal(err)
	}
	u, _ := s.GetUser("u1")
	if u.FirstName != "Пётр" || u.LastName != "Иванов" || u.MiddleName != "Сергеевич" || u.Phone != "+7 900" {
		t.Fatalf("profile not updated: %+v", u)
	}
}

func TestUpdateUserProfileMissing(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateUserProfile("ghost", "a", "b", "", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetUserPhoto(t *testing.T) {
	s := newTestStore(t)
	createUser(t, s, "u1", "ivan@example.com")

	if err := s.SetUserPhoto("u1", "file:///tmp/a.jpg"); err != nil {
		t.Fatal(err)
	}
	u, _ := s.GetUser("u1")
	if u.PhotoURL != "file:///tmp/a.jpg" {
		t.Fatalf("photo_url = %q", u.PhotoURL)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	want := errors.New("boom")
	err := retry(func() error {
		calls++
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected original error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("non-busy error should not be retried, got %d calls", calls)
	}
}

func TestIsBusyIgnoresPlainErrors(t *testing.T) {
	if isBusy(errors.New("database is locked")) {
		t.Fatal("plain errors are not sqlite busy errors")
	}
	if isUniqueViolation(nil) {
		t.Fatal("nil is not a unique violation")
	}
}
