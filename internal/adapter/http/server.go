package adapthttp

import (
	"net/http"

	"boxtracker/internal/app"

	"github.com/sirupsen/logrus"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	boxes    *app.BoxService
	auth     *app.AuthService
	resolver *Resolver
	oidc     *OIDCConfig
	webDir   string
	log      *logrus.Entry
}

// New creates a Server wired to the given application services. oidc may be
// nil when no identity provider is configured.
func New(boxes *app.BoxService, auth *app.AuthService, resolver *Resolver, oidc *OIDCConfig, webDir string, log *logrus.Entry) *Server {
	return &Server{boxes: boxes, auth: auth, resolver: resolver, oidc: oidc, webDir: webDir, log: log}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	api.HandleFunc("/config", s.handleConfig)

	api.HandleFunc("/auth/register", s.handleRegister)
	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	api.Handle("/boxes", s.requireUser(http.HandlerFunc(s.handleBoxes)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/", spaFromDisk(s.webDir))

	return requestLogger(s.log)(withNoCache(root))
}
