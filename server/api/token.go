package api

import (
	"net/http"
	"time"

	"github.com/dekarrin/cfgcrunch/server/dao"
	"github.com/dekarrin/cfgcrunch/server/middle"
	"github.com/dekarrin/cfgcrunch/server/result"
	"github.com/dekarrin/cfgcrunch/server/token"
)

// HTTPCreateToken returns a HandlerFunc that issues a fresh token for the
// logged-in user, so a client submitting grammars can keep working past the
// lifetime of its current token without sending the password again.
//
// The context must contain the logged-in user of the client making the
// request, or the handler responds with an HTTP-500.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return api.Endpoint(api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	resp, err := api.issueToken(user)
	if err != nil {
		return result.InternalServerError("could not issue crunchd token for user '%s': %s", user.Username, err.Error())
	}
	return result.Created(resp, "user '%s' renewed their crunchd token until %s", user.Username, resp.Expires)
}

// issueToken signs a new token for user and builds the response that carries
// it to the client.
func (api API) issueToken(user dao.User) (LoginResponse, error) {
	expires := time.Now().Add(token.Lifetime)
	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		Token:   tok,
		UserID:  user.ID.String(),
		Expires: expires.UTC().Format(time.RFC3339),
	}, nil
}
