package blob

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestBlobs(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "blobs"))
	if err != nil {
		t.Fatalf("new blob store: %v", err)
	}
	return s
}

func TestPutAndOpen(t *testing.T) {
	s := newTestBlobs(t)

	u, err := s.Put("profile_images/u1/a.jpg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(u, "file://") || !strings.HasSuffix(u, "/profile_images/u1/a.jpg") {
		t.Fatalf("unexpected url %q", u)
	}

	rc, err := s.Open("profile_images/u1/a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "jpeg-bytes" {
		t.Fatalf("content = %q", data)
	}
}

func TestPutOverwrites(t *testing.T) {
	s := newTestBlobs(t)
	s.Put("k.png", strings.NewReader("one"))
	s.Put("k.png", strings.NewReader("two"))

	rc, _ := s.Open("k.png")
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "two" {
		t.Fatalf("content = %q, want two", data)
	}
}

func TestPutLeavesNoTempFiles(t *testing.T) {
	s := newTestBlobs(t)
	s.Put("dir/k.png", strings.NewReader("x"))

	entries, _ := os.ReadDir(filepath.Join(s.Root(), "dir"))
	if len(entries) != 1 || entries[0].Name() != "k.png" {
		t.Fatalf("unexpected directory content: %v", entries)
	}
}

func TestInvalidKeys(t *testing.T) {
	s := newTestBlobs(t)
	for _, key := range []string{"", "/abs", "../escape", "a/../../b", "a//b", "a\\b", "."} {
		if _, err := s.Put(key, strings.NewReader("x")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Put(%q) = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestDelete(t *testing.T) {
	s := newTestBlobs(t)
	s.Put("a.jpg", strings.NewReader("x"))

	if err := s.Delete("a.jpg"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Open("a.jpg"); err == nil {
		t.Fatal("deleted blob should not open")
	}
	if err := s.Delete("a.jpg"); err != nil {
		t.Fatalf("deleting a missing blob should succeed: %v", err)
	}
}

func TestKeyFromURL(t *testing.T) {
	s := newTestBlobs(t)
	u := s.URL("profile_images/u1/a.jpg")

	key, ok := s.KeyFromURL(u)
	if !ok || key != "profile_images/u1/a.jpg" {
		t.Fatalf("KeyFromURL(%q) = %q, %v", u, key, ok)
	}

	for _, raw := range []string{"https://example.com/a.jpg", "file:///elsewhere/a.jpg", "::bad"} {
		if _, ok := s.KeyFromURL(raw); ok {
			t.Errorf("KeyFromURL(%q) should fail", raw)
		}
	}
}
