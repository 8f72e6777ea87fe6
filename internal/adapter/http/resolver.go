// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"context"
	"net/http"

	"boxtracker/internal/app"
	"boxtracker/internal/domain"
)

// Strategy resolves a request to a user identity. It returns (nil, nil) when
// the request carries nothing the strategy understands, letting the next
// strategy in the chain try. A non-nil error means resolution itself failed
// (for example storage being unavailable), not merely that no identity was
// found.
type Strategy interface {
	Resolve(ctx context.Context, r *http.Request) (*domain.User, error)
}

// Resolver tries an ordered list of strategies and short-circuits on the
// first resolved identity.
type Resolver struct {
	strategies []Strategy
}

// NewResolver creates a Resolver over the given strategies, tried in order.
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Resolve returns the first identity any strategy produces, or (nil, nil)
// when the request is unauthenticated.
func (rv *Resolver) Resolve(ctx context.Context, r *http.Request) (*domain.User, error) {
	for _, s := range rv.strategies {
		user, err := s.Resolve(ctx, r)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
	}
	return nil, nil
}

const tokenCookieName = "token"

// TokenStrategy resolves the signed stateless token cookie to a user id.
type TokenStrategy struct {
	auth *app.AuthService
}

// NewTokenStrategy creates a TokenStrategy backed by the auth service.
func NewTokenStrategy(auth *app.AuthService) *TokenStrategy {
	return &TokenStrategy{auth: auth}
}

// Resolve verifies the token cookie and looks up the embedded user id.
// Missing, malformed, or stale tokens fall through to the next strategy.
func (s *TokenStrategy) Resolve(ctx context.Context, r *http.Request) (*domain.User, error) {
	cookie, err := r.Cookie(tokenCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	userID, err := s.auth.ParseToken(cookie.Value)
	if err != nil {
		return nil, nil
	}
	return s.auth.UserByID(ctx, userID)
}
