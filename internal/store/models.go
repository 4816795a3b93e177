package store

import "time"

// User is the stored account plus its profile document.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	MiddleName   string
	Phone        string
	PhotoURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Setting struct {
	Key   string
	Value string
}

// Pref is a single key-value pair inside a namespace.
type Pref struct {
	Namespace string
	Key       string
	Value     string
}
