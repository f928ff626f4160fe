package middle

import (
	"log"
	"net/http"
	"strings"

	"github.com/dekarrin/cfgcrunch/server/result"
)

func logUnauthorized(req *http.Request, r result.Result) {
	// we don't really care about the ephemeral port from the client end
	remoteIP := strings.SplitN(req.RemoteAddr, ":", 2)[0]
	log.Printf("WARN  %s %s %s: HTTP-%d %s", remoteIP, req.Method, req.URL.Path, r.Status, r.InternalMsg)
}
