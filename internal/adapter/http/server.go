package adapthttp

import (
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"contactbook/internal/app"
)

// OIDCConfig carries the optional single-sign-on configuration. When Enabled
// is false the SSO endpoints answer 404 and only password login is offered.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	contacts    *app.ContactService
	authSvc     *app.AuthService
	oidcConfig  OIDCConfig
	disableAuth bool
}

// New creates a Server wired to the given application services.
func New(cs *app.ContactService, as *app.AuthService, oidcCfg OIDCConfig) *Server {
	return &Server{contacts: cs, authSvc: as, oidcConfig: oidcCfg}
}

// WithoutAuth disables the auth middleware; requests run as a fixed test
// user. Only meant for tests.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/auth/signup", s.handleSignup)
	api.HandleFunc("/auth/login", s.handleLogin)
	api.HandleFunc("/auth/logout", s.handleLogout)
	api.HandleFunc("/auth/config", s.handleConfig)
	api.HandleFunc("/auth/sso/login", s.handleSSOLogin)
	api.HandleFunc("/auth/sso/callback", s.handleSSOCallback)

	contacts := http.NewServeMux()
	contacts.HandleFunc("/contacts", s.handleContacts)
	contacts.HandleFunc("/contacts/search", s.handleContactSearch)
	contacts.HandleFunc("/contacts/birthdays", s.handleContactBirthdays)
	contacts.HandleFunc("/contacts/", s.handleContactByID)
	api.Handle("/contacts", s.authMiddleware(contacts))
	api.Handle("/contacts/", s.authMiddleware(contacts))
	api.Handle("/users/me", s.authMiddleware(http.HandlerFunc(s.handleUsersMe)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return s.loggingMiddleware(withNoCache(root))
}
