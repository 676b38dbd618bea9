package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Suggested roles. The role field is free-form and not validated against these.
const (
	RoleAdmin    = "Admin"
	RoleManager  = "Manager"
	RoleEmployee = "Employee"
)

// fingerprintTimeLayout is ISO-8601 with millisecond precision in UTC.
const fingerprintTimeLayout = "2006-01-02T15:04:05.000Z"

// Account is an employee account.
type Account struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	// SessionToken is empty while the account is logged out.
	SessionToken string `json:"-"`
}

// LastModified returns UpdatedAt, or CreatedAt when the account was never edited.
func (a *Account) LastModified() time.Time {
	if a.UpdatedAt != nil {
		return *a.UpdatedAt
	}
	return a.CreatedAt
}

// Fingerprint is the hex SHA-256 digest of id, name, email, role and creation time.
// UpdatedAt, the password hash and the session token are not part of it.
func (a *Account) Fingerprint() string {
	data := fmt.Sprintf("%s-%s-%s-%s-%s",
		a.ID, a.Name, a.Email, a.Role, a.CreatedAt.UTC().Format(fingerprintTimeLayout))
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	if a.UpdatedAt != nil {
		t := *a.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
