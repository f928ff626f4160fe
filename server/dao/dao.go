// Package dao provides data access objects for use in the cfgcrunch server.
package dao

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dekarrin/cfgcrunch/internal/grammar"
	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Users() UserRepository
	Simplifications() SimplificationRepository
	Close() error
}

type UserRepository interface {

	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

type SimplificationRepository interface {

	// Create stores a new Simplification. The ID and Created time are
	// generated; all other attributes are taken from the provided
	// Simplification.
	Create(ctx context.Context, s Simplification) (Simplification, error)
	GetByID(ctx context.Context, id uuid.UUID) (Simplification, error)

	// GetAllByOwner returns every Simplification created by the user with
	// the given ID, oldest first.
	GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]Simplification, error)

	// GetAll returns every Simplification, oldest first.
	GetAll(ctx context.Context) ([]Simplification, error)
	Delete(ctx context.Context, id uuid.UUID) (Simplification, error)
	Close() error
}

type Role int

const (
	Normal Role = iota

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Normal, fmt.Errorf("must be one of 'normal' or 'admin'")
	}
}

type User struct {
	ID             uuid.UUID
	Username       string
	Password       string
	Email          *mail.Address
	Role           Role
	Created        time.Time
	Modified       time.Time
	LastLogoutTime time.Time
	LastLoginTime  time.Time
}

// Simplification is a grammar that a user submitted along with the result of
// simplifying it.
type Simplification struct {
	ID    uuid.UUID
	Owner uuid.UUID
	Name  string

	// Input is the rule lines exactly as they were submitted.
	Input []string

	// Result is the grammar with epsilon productions and useless symbols
	// removed.
	Result grammar.Grammar

	Created time.Time
}
