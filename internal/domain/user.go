package domain

import (
	"context"
	"errors"
	"time"
)

const (
	RoleCandidate = "candidate"
	RoleCompany   = "company"
	RoleAdmin     = "admin"
)

// ErrEmailTaken is returned when another user row already owns the email.
var ErrEmailTaken = errors.New("email already belongs to another user")

type User struct {
	ID        string    `json:"id"` // identity provider subject
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	ImageURL  *string   `json:"imageUrl"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity is what a verified session token says about its caller.
type Identity struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
	ImageURL  string
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	// Upsert inserts the user or refreshes its profile columns. The role of
	// an existing row is never changed.
	Upsert(ctx context.Context, user *User) (*User, error)
}

type AuthUsecase interface {
	GetCurrentUser(ctx context.Context, id string) (*User, error)
	// EnsureUser returns the local user for a verified session, creating it
	// with the candidate role on first sight.
	EnsureUser(ctx context.Context, identity Identity) (*User, error)
}
