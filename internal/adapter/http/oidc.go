package adapthttp

import (
	"context"
	"net/http"

	"boxtracker/internal/app"
	"boxtracker/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const idTokenCookieName = "id_token"

// OIDCConfig holds the federated-identity-provider wiring. Enabled is false
// when the provider is not configured, in which case the SSO endpoints are
// off and the OIDC strategy never resolves.
type OIDCConfig struct {
	Enabled  bool
	Provider *oidc.Provider
	OAuth2   oauth2.Config
}

// NewOIDC discovers the issuer and builds the OAuth2 config for the
// authorization-code flow.
func NewOIDC(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (*OIDCConfig, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, err
	}
	return &OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

func (c *OIDCConfig) verifier() *oidc.IDTokenVerifier {
	return c.Provider.Verifier(&oidc.Config{ClientID: c.OAuth2.ClientID})
}

// OIDCStrategy resolves the provider-issued ID token cookie to a user by its
// email claim, provisioning the user on first sight.
type OIDCStrategy struct {
	cfg  *OIDCConfig
	auth *app.AuthService
}

// NewOIDCStrategy creates an OIDCStrategy over the given provider config.
func NewOIDCStrategy(cfg *OIDCConfig, auth *app.AuthService) *OIDCStrategy {
	return &OIDCStrategy{cfg: cfg, auth: auth}
}

// Resolve verifies the ID token cookie against the provider keys. Tokens
// that fail verification or carry no email claim fall through.
func (s *OIDCStrategy) Resolve(ctx context.Context, r *http.Request) (*domain.User, error) {
	if s.cfg == nil || !s.cfg.Enabled {
		return nil, nil
	}

	cookie, err := r.Cookie(idTokenCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	idToken, err := s.cfg.verifier().Verify(ctx, cookie.Value)
	if err != nil {
		return nil, nil
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil || claims.Email == "" {
		return nil, nil
	}

	return s.auth.ProvisionSSOUser(ctx, claims.Email)
}
