package api

import (
	"net/http"

	"github.com/dekarrin/cfgcrunch/internal/version"
	"github.com/dekarrin/cfgcrunch/server/dao"
	"github.com/dekarrin/cfgcrunch/server/middle"
	"github.com/dekarrin/cfgcrunch/server/result"
	"github.com/dekarrin/cfgcrunch/server/token"
)

// HTTPGetInfo returns a HandlerFunc that reports the server and cfgcrunch
// versions along with the limits the server places on simplification
// requests, so clients can check a grammar's size before submitting it.
//
// Logging in is optional. The context must contain a value denoting whether
// the client making the request is logged-in, or the handler responds with an
// HTTP-500.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.Endpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.CFGCrunch = version.Current
	resp.Limits.MaxExpansion = api.Backend.ExpansionLimit()
	resp.Limits.MaxBodyBytes = MaxBodySize
	resp.Limits.TokenLife = token.Lifetime.String()

	who := "anonymous client"
	if req.Context().Value(middle.AuthLoggedIn).(bool) {
		who = "user '" + req.Context().Value(middle.AuthUser).(dao.User).Username + "'"
	}
	return result.OK(resp, "%s read info for cfgcrunch %s (expansion limit %d)", who, version.Current, resp.Limits.MaxExpansion)
}
