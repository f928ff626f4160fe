package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dekarrin/cfgcrunch/internal/cgerrors"
	"github.com/dekarrin/cfgcrunch/internal/grammar"
	"github.com/dekarrin/cfgcrunch/server/dao"
	"github.com/dekarrin/cfgcrunch/server/middle"
	"github.com/dekarrin/cfgcrunch/server/result"
	"github.com/dekarrin/cfgcrunch/server/serr"
)

// HTTPCreateSimplification returns a HandlerFunc that simplifies the grammar
// in the request body and stores the result as owned by the logged-in user.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPCreateSimplification() http.HandlerFunc {
	return api.Endpoint(api.epCreateSimplification)
}

func (api API) epCreateSimplification(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	var simpReq SimplificationRequest
	err := parseJSON(req, &simpReq)
	if err != nil {
		if errors.Is(err, serr.ErrTooLarge) {
			return result.TooLarge(err.Error(), err.Error())
		}
		return result.BadRequest(err.Error(), err.Error())
	}

	var lines []string
	if simpReq.Grammar != "" && simpReq.Lines != nil {
		return result.BadRequest("grammar, lines: only one may be given", "both grammar and lines given")
	} else if simpReq.Lines != nil {
		lines = simpReq.Lines
	} else if simpReq.Grammar != "" {
		lines = strings.Split(strings.ReplaceAll(simpReq.Grammar, "\r\n", "\n"), "\n")
	} else {
		return result.BadRequest("grammar: property is empty or missing from request", "empty grammar")
	}

	for i := range lines {
		if strings.ContainsAny(lines[i], "\r\n") {
			return result.BadRequest("lines: a line cannot contain a line break", "line break in line %d", i+1)
		}
	}

	s, err := api.Backend.CreateSimplification(req.Context(), user.ID, simpReq.Name, lines)
	if err != nil {
		var parseErr *grammar.ParseError
		if errors.As(err, &parseErr) {
			return result.BadRequest(cgerrors.ConsoleMessage(parseErr), "user '%s': %s", user.Username, parseErr.Error())
		} else if errors.Is(err, serr.ErrTooLarge) {
			return result.TooLarge(err.Error(), "user '%s': %s", user.Username, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(simplificationModel(s), "user '%s' created simplification %s", user.Username, s.ID)
}

// HTTPGetAllSimplifications returns a HandlerFunc that lists the
// simplifications the logged-in user can see. Admins see all of them; other
// users see their own.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPGetAllSimplifications() http.HandlerFunc {
	return api.Endpoint(api.epGetAllSimplifications)
}

func (api API) epGetAllSimplifications(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	all, err := api.Backend.GetSimplifications(req.Context(), user)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]SimplificationModel, len(all))
	for i := range all {
		resp[i] = simplificationModel(all[i])
	}

	return result.OK(resp, "user '%s' got %d simplification(s)", user.Username, len(resp))
}

// HTTPGetSimplification returns a HandlerFunc that gets a single
// simplification. Only its owner or an admin may retrieve it.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the simplification and the logged-in user of the client making the
// request.
func (api API) HTTPGetSimplification() http.HandlerFunc {
	return api.Endpoint(api.epGetSimplification)
}

func (api API) epGetSimplification(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	s, err := api.Backend.GetSimplification(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	// someone else's simplification looks the same as a missing one so that
	// IDs of other users' simplifications stay hidden.
	if s.Owner != user.ID && user.Role != dao.Admin {
		return result.NotFound("user '%s' (role %s) get simplification %s owned by %s: forbidden", user.Username, user.Role, id, s.Owner)
	}

	return result.OK(simplificationModel(s), "user '%s' got simplification %s", user.Username, id)
}

// HTTPDeleteSimplification returns a HandlerFunc that deletes a
// simplification. Only its owner or an admin may delete it.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the simplification and the logged-in user of the client making the
// request.
func (api API) HTTPDeleteSimplification() http.HandlerFunc {
	return api.Endpoint(api.epDeleteSimplification)
}

func (api API) epDeleteSimplification(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	s, err := api.Backend.GetSimplification(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	if s.Owner != user.ID && user.Role != dao.Admin {
		return result.NotFound("user '%s' (role %s) delete simplification %s owned by %s: forbidden", user.Username, user.Role, id, s.Owner)
	}

	_, err = api.Backend.DeleteSimplification(req.Context(), id)
	if err != nil && !errors.Is(err, serr.ErrNotFound) {
		return result.InternalServerError("could not delete simplification: " + err.Error())
	}

	return result.NoContent("user '%s' deleted simplification %s", user.Username, id)
}
