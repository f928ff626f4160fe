// Package server provides an HTTP REST server that simplifies context-free
// grammars for authenticated users and stores the results.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/cfgcrunch/server/api"
	"github.com/dekarrin/cfgcrunch/server/crunch"
	"github.com/dekarrin/cfgcrunch/server/dao"
	"github.com/dekarrin/cfgcrunch/server/serr"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptMinCost = bcrypt.MinCost
	bcryptMaxCost = bcrypt.MaxCost
)

// server:
//
//	POST   /login                  - accepts user and password and returns a jwt.
//	DELETE /login/{id}             - ends user authentication session and invalidates the jwt.
//	POST   /tokens                 - refreshes the token without requiring credentials (requires auth)
//	POST   /simplifications        - simplify a grammar and keep the result (requires auth)
//	GET    /simplifications        - list visible simplifications (requires auth)
//	GET    /simplifications/{id}   - get one simplification (requires auth, owner or admin)
//	DELETE /simplifications/{id}   - delete one simplification (requires auth, owner or admin)
//	POST   /users                  - create a new user account (requires admin)
//	GET    /users                  - get all users (requires admin)
//	GET    /users/{id}             - get info on a user (requires auth, self or admin)
//	DELETE /users/{id}             - delete a user (requires auth, self or admin)
//	GET    /info                   - get version info on the server and simplifier.

// Server is an HTTP REST server that simplifies grammars. The zero-value of a
// Server should not be used directly; call New() to get one ready for use.
type Server struct {
	router http.Handler
	api    api.API
	db     dao.Store
	srv    *http.Server
}

// New creates a new Server from the given config. Unset values in cfg are
// given their defaults before it is validated.
func New(cfg Config) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect DB: %w", err)
	}

	s := &Server{
		db: db,
		api: api.API{
			Backend: crunch.Service{
				DB:           db,
				HashCost:     cfg.HashCost,
				MaxExpansion: cfg.MaxExpansion,
			},
			UnauthDelay: cfg.UnauthDelay(),
			Secret:      cfg.TokenSecret,
		},
	}
	s.router = newRouter(s.api)

	return s, nil
}

// Handler returns the http.Handler that routes all requests to the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// CreateUser creates a user directly in the backing store, bypassing the API.
// It is used to create the initial admin user. If a user with that username
// already exists, it is left alone and returned as-is.
func (s *Server) CreateUser(ctx context.Context, username, password string, role dao.Role) (dao.User, error) {
	user, err := s.api.Backend.CreateUser(ctx, username, password, "", role)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return s.db.Users().GetByUsername(ctx, username)
		}
		return dao.User{}, err
	}
	return user, nil
}

// ServeForever begins listening on the given address for HTTP REST client
// requests. If address is kept as "", it will default to "localhost:8080". It
// returns only once the server stops; after Close is called, the returned
// error is nil.
func (s *Server) ServeForever(address string) error {
	if address == "" {
		address = "localhost:8080"
	}

	s.srv = &http.Server{Addr: address, Handler: s.router}

	log.Printf("INFO  Listening on %s", address)
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close shuts down the listener if one is running and closes the backing
// store.
func (s *Server) Close() error {
	var err error
	if s.srv != nil {
		err = s.srv.Shutdown(context.Background())
	}
	if dbErr := s.db.Close(); dbErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, db: %w", err, dbErr)
		} else {
			err = fmt.Errorf("db: %w", dbErr)
		}
	}
	return err
}
