package adapthttp_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	adapthttp "boxtracker/internal/adapter/http"
	"boxtracker/internal/domain"
)

type fakeStrategy struct {
	user   *domain.User
	err    error
	called bool
}

func (f *fakeStrategy) Resolve(_ context.Context, _ *http.Request) (*domain.User, error) {
	f.called = true
	return f.user, f.err
}

func TestResolverShortCircuitsOnFirstIdentity(t *testing.T) {
	first := &fakeStrategy{user: &domain.User{ID: 1, Email: "first@example.com"}}
	second := &fakeStrategy{user: &domain.User{ID: 2, Email: "second@example.com"}}
	rv := adapthttp.NewResolver(first, second)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	user, err := rv.Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user == nil || user.ID != 1 {
		t.Fatalf("user = %v, want id 1", user)
	}
	if second.called {
		t.Error("second strategy ran after first resolved")
	}
}

func TestResolverFallsThroughToNextStrategy(t *testing.T) {
	first := &fakeStrategy{}
	second := &fakeStrategy{user: &domain.User{ID: 2}}
	rv := adapthttp.NewResolver(first, second)

	user, err := rv.Resolve(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user == nil || user.ID != 2 {
		t.Fatalf("user = %v, want id 2", user)
	}
}

func TestResolverUnauthenticated(t *testing.T) {
	rv := adapthttp.NewResolver(&fakeStrategy{}, &fakeStrategy{})

	user, err := rv.Resolve(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || user != nil {
		t.Fatalf("got %v, %v; want nil, nil", user, err)
	}
}

func TestResolverPropagatesStrategyFailure(t *testing.T) {
	wantErr := errors.New("store down")
	second := &fakeStrategy{user: &domain.User{ID: 2}}
	rv := adapthttp.NewResolver(&fakeStrategy{err: wantErr}, second)

	_, err := rv.Resolve(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if second.called {
		t.Error("chain continued past a failing strategy")
	}
}
