// Package account manages local sign-up, login and the signed-in user's
// profile document.
package account

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sadopc/hobbytrack/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

const sessionKey = "session_user"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not signed in")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password too short")
	ErrMissingName        = errors.New("first and last name are required")
	ErrUnsupportedImage   = errors.New("unsupported image type")
)

// Users is the persistence the service needs; *store.Store implements it.
type Users interface {
	CreateUser(u store.User) (*store.User, error)
	GetUser(id string) (*store.User, error)
	GetUserByEmail(email string) (*store.User, error)
	UpdateUserProfile(id, firstName, lastName, middleName, phone string) error
	SetUserPhoto(id, photoURL string) error

	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

// Blobs stores uploaded images.
type Blobs interface {
	Put(key string, r io.Reader) (string, error)
	Delete(key string) error
	KeyFromURL(raw string) (string, bool)
}

// Session identifies the signed-in user.
type Session struct {
	UserID string
	Email  string
}

// Profile is the user-editable part of an account.
type Profile struct {
	Email      string
	FirstName  string
	LastName   string
	MiddleName string
	Phone      string
	PhotoURL   string
}

type Service struct {
	users  Users
	blobs  Blobs
	logger *slog.Logger

	mu      sync.Mutex
	session *Session
}

func NewService(users Users, blobs Blobs, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{users: users, blobs: blobs, logger: logger.With("component", "account")}
}

// Restore resumes the session persisted by the last Login or SignUp.
// A stale session pointing at a missing user is cleared.
func (s *Service) Restore() (*Session, bool, error) {
	id, err := s.users.GetSetting(sessionKey)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("restore session: %w", err)
	}
	if id == "" {
		return nil, false, nil
	}
	u, err := s.users.GetUser(id)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("dropping stale session", "user_id", id)
		if err := s.users.DeleteSetting(sessionKey); err != nil {
			return nil, false, fmt.Errorf("clear stale session: %w", err)
		}
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("restore session: %w", err)
	}
	return s.setSession(u), true, nil
}

func (s *Service) SignUp(email, password, firstName, lastName string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, ErrMissingName
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return nil, fmt.Errorf("%w: need at least %d characters", ErrWeakPassword, MinPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.CreateUser(store.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if err := s.users.SetSetting(sessionKey, u.ID); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	s.logger.Info("signed up", "user_id", u.ID)
	return s.setSession(u), nil
}

func (s *Service) Login(email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.GetUserByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login rejected", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}
	if err := s.users.SetSetting(sessionKey, u.ID); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	s.logger.Info("logged in", "user_id", u.ID)
	return s.setSession(u), nil
}

func (s *Service) Logout() error {
	if err := s.users.DeleteSetting(sessionKey); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	return nil
}

func (s *Service) Current() (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, false
	}
	cp := *s.session
	return &cp, true
}

func (s *Service) Profile() (Profile, error) {
	sess, ok := s.Current()
	if !ok {
		return Profile{}, ErrNotAuthenticated
	}
	u, err := s.users.GetUser(sess.UserID)
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return Profile{
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		MiddleName: u.MiddleName,
		Phone:      u.Phone,
		PhotoURL:   u.PhotoURL,
	}, nil
}

// UpdateProfile replaces the editable name and phone fields.
func (s *Service) UpdateProfile(firstName, lastName, middleName, phone string) error {
	sess, ok := s.Current()
	if !ok {
		return ErrNotAuthenticated
	}
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return ErrMissingName
	}
	err := s.users.UpdateUserProfile(sess.UserID, firstName, lastName,
		strings.TrimSpace(middleName), strings.TrimSpace(phone))
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// UploadAvatar copies the image at srcPath into blob storage and points the
// profile at it. The previous avatar is removed once the new one is saved.
func (s *Service) UploadAvatar(srcPath string) (string, error) {
	sess, ok := s.Current()
	if !ok {
		return "", ErrNotAuthenticated
	}
	ext := strings.ToLower(filepath.Ext(srcPath))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}

	prev, err := s.users.GetUser(sess.UserID)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open avatar: %w", err)
	}
	defer f.Close()

	key := fmt.Sprintf("profile_images/%s/%s%s", sess.UserID, uuid.NewString(), ext)
	url, err := s.blobs.Put(key, f)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	if err := s.users.SetUserPhoto(sess.UserID, url); err != nil {
		if derr := s.blobs.Delete(key); derr != nil {
			s.logger.Warn("orphaned avatar", "key", key, "error", derr)
		}
		return "", fmt.Errorf("save avatar url: %w", err)
	}

	if old, ok := s.blobs.KeyFromURL(prev.PhotoURL); ok {
		if err := s.blobs.Delete(old); err != nil {
			s.logger.Warn("remove previous avatar", "key", old, "error", err)
		}
	}
	s.logger.Info("avatar uploaded", "user_id", sess.UserID, "key", key)
	return url, nil
}

// Initials returns up to two upper-case letters for an avatar placeholder,
// falling back to the email when no name is set.
func Initials(p Profile) string {
	var b strings.Builder
	for _, part := range []string{p.FirstName, p.LastName} {
		if r, ok := firstLetter(part); ok {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	if b.Len() == 0 {
		if r, ok := firstLetter(p.Email); ok {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

func firstLetter(s string) (rune, bool) {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return r, true
	}
	return 0, false
}

func (s *Service) setSession(u *store.User) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &Session{UserID: u.ID, Email: u.Email}
	cp := *s.session
	return &cp
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return email, nil
}
