// Package inmem provides a dao.Store that keeps all data in memory. All data
// is lost when the program exits.
package inmem

import (
	"fmt"

	"github.com/dekarrin/cfgcrunch/server/dao"
)

type store struct {
	users *InMemoryUsersRepository
	simps *InMemorySimplificationsRepository
}

func NewDatastore() dao.Store {
	return &store{
		users: NewUsersRepository(),
		simps: NewSimplificationsRepository(),
	}
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Simplifications() dao.SimplificationRepository {
	return s.simps
}

func (s *store) Close() error {
	var err error

	if nextErr := s.users.Close(); nextErr != nil {
		err = fmt.Errorf("users: %w", nextErr)
	}
	if nextErr := s.simps.Close(); nextErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, simplifications: %w", err, nextErr)
		} else {
			err = fmt.Errorf("simplifications: %w", nextErr)
		}
	}

	return err
}
