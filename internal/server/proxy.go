package server

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/goliatone/go-mfadmin/pkg/apiclient"
)

// DevProxy forwards /api/<path> to <target>/<path>, keeping the target's base
// path and query, and sets the tenant header when tenant is not empty.
func DevProxy(target *url.URL, tenant string, logger *log.Logger) http.Handler {
	base := strings.TrimRight(target.Path, "/")
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			rest := strings.TrimPrefix(pr.In.URL.Path, "/api")
			pr.SetURL(target)
			pr.Out.URL.Path = base + rest
			pr.Out.URL.RawPath = ""
			pr.Out.Host = target.Host
			if tenant != "" {
				pr.Out.Header.Set(apiclient.TenantHeader, tenant)
			}
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			if logger != nil {
				logger.Printf("server: proxy %s: %v", r.URL.Path, err)
			}
			writeError(w, http.StatusBadGateway, "PROXY", "backend unavailable")
		},
	}
	return proxy
}
