package crunch

import (
	"context"
	"errors"

	"github.com/dekarrin/cfgcrunch/internal/grammar"
	"github.com/dekarrin/cfgcrunch/server/dao"
	"github.com/dekarrin/cfgcrunch/server/serr"
	"github.com/google/uuid"
)

// CreateSimplification parses the given rule lines as a grammar, removes its
// epsilon productions and useless symbols, and stores the result as owned by
// the given user. The stored simplification is returned.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the lines cannot be parsed,
// errors.As will find a *grammar.ParseError in it and it will match
// serr.ErrBadArgument. If removing epsilon productions would create more
// productions than the service allows, errors.As will find a
// *grammar.ExpansionError in it and it will match serr.ErrTooLarge. If the
// error occured due to an unexpected problem with the DB, it will match
// serr.ErrDB.
func (svc Service) CreateSimplification(ctx context.Context, owner uuid.UUID, name string, lines []string) (dao.Simplification, error) {
	g, err := grammar.Parse(lines)
	if err != nil {
		return dao.Simplification{}, serr.New("", err, serr.ErrBadArgument)
	}

	if err := g.CheckExpansion(svc.ExpansionLimit()); err != nil {
		return dao.Simplification{}, serr.New("", err, serr.ErrTooLarge)
	}

	simplified := g.RemoveEpsilons().RemoveUseless()

	input := make([]string, len(lines))
	copy(input, lines)

	s, err := svc.DB.Simplifications().Create(ctx, dao.Simplification{
		Owner:  owner,
		Name:   name,
		Input:  input,
		Result: simplified,
	})
	if err != nil {
		return dao.Simplification{}, serr.WrapDB("could not store simplification", err)
	}

	return s, nil
}

// GetSimplification returns the simplification with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no simplification with that
// ID exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB.
func (svc Service) GetSimplification(ctx context.Context, id uuid.UUID) (dao.Simplification, error) {
	s, err := svc.DB.Simplifications().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Simplification{}, serr.ErrNotFound
		}
		return dao.Simplification{}, serr.WrapDB("could not get simplification", err)
	}

	return s, nil
}

// GetSimplifications returns the simplifications that the given user can see,
// oldest first. Admins see every simplification; all other users see only
// their own.
func (svc Service) GetSimplifications(ctx context.Context, user dao.User) ([]dao.Simplification, error) {
	var all []dao.Simplification
	var err error

	if user.Role == dao.Admin {
		all, err = svc.DB.Simplifications().GetAll(ctx)
	} else {
		all, err = svc.DB.Simplifications().GetAllByOwner(ctx, user.ID)
	}
	if err != nil {
		return nil, serr.WrapDB("could not get simplifications", err)
	}

	return all, nil
}

// DeleteSimplification deletes the simplification with the given ID and
// returns it as it was just before deletion.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no simplification with that
// ID exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB.
func (svc Service) DeleteSimplification(ctx context.Context, id uuid.UUID) (dao.Simplification, error) {
	s, err := svc.DB.Simplifications().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Simplification{}, serr.ErrNotFound
		}
		return dao.Simplification{}, serr.WrapDB("could not delete simplification", err)
	}

	return s, nil
}
