// Package crunch has services for interacting with the cfgcrunch server
// backend decoupled from the API that accesses it.
package crunch

import (
	"github.com/dekarrin/cfgcrunch/server/dao"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultHashCost is the bcrypt cost used for passwords if none is set.
	DefaultHashCost = 14

	// DefaultMaxExpansion is the largest number of candidate productions
	// that epsilon removal is allowed to generate for a single submitted
	// grammar if no other limit is set.
	DefaultMaxExpansion = 1 << 16
)

// Service is a service for interacting with and modifying the cfgcrunch server
// backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// HashCost is the bcrypt cost used when hashing new passwords. If it is
	// not set, DefaultHashCost is used.
	HashCost int

	// MaxExpansion limits the size of grammars accepted for simplification.
	// If it is not set, DefaultMaxExpansion is used.
	MaxExpansion int
}

func (svc Service) hashCost() int {
	if svc.HashCost < bcrypt.MinCost {
		return DefaultHashCost
	}
	return svc.HashCost
}

// ExpansionLimit returns the most productions that epsilon removal may create
// for a grammar submitted to the service.
func (svc Service) ExpansionLimit() int {
	if svc.MaxExpansion < 1 {
		return DefaultMaxExpansion
	}
	return svc.MaxExpansion
}
