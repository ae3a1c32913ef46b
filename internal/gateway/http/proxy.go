package http

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/harborcrest/authgate/pkg/httpx"
	"github.com/harborcrest/authgate/pkg/slogx"
)

// Identity headers the gateway attaches for upstream services. They are
// advisory: upstreams hold the same shared secret and re-verify the bearer
// token themselves, so a forged header never grants anything on its own.
const (
	HeaderAuthSubject = "X-Auth-Subject"
	HeaderAuthRoles   = "X-Auth-Roles"
)

// newProxy builds the reverse proxy for one upstream. The original
// Authorization header travels through untouched so the upstream can run
// its own verification.
func newProxy(upstream *url.URL, logger *slog.Logger) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()
			pr.Out.Host = upstream.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slogx.FromContext(r.Context()).Error("upstream request failed",
				"upstream", upstream.Host,
				"path", r.URL.Path,
				"err", err,
			)
			httpx.WriteError(w, http.StatusBadGateway, "bad_gateway", "upstream unavailable")
		},
	}
}
