package session

import (
	"errors"
	"testing"

	"spendsense/api/models"
)

func claims(sub string, verified bool) *models.SupabaseClaims {
	c := &models.SupabaseClaims{Sub: sub}
	c.UserMetadata.EmailVerified = verified
	return c
}

func TestDerive(t *testing.T) {
	if got := Derive(nil, nil); got != StateUnauthenticated {
		t.Fatalf("nil claims: got %v", got)
	}
	if got := Derive(claims("u1", true), errors.New("bad token")); got != StateUnauthenticated {
		t.Fatalf("verification error: got %v", got)
	}
	if got := Derive(claims("", true), nil); got != StateUnauthenticated {
		t.Fatalf("empty sub: got %v", got)
	}
	if got := Derive(claims("u1", false), nil); got != StateUnverified {
		t.Fatalf("unverified: got %v", got)
	}
	if got := Derive(claims("u1", true), nil); got != StateVerified {
		t.Fatalf("verified: got %v", got)
	}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		name  string
		state State
		class RouteClass
		want  Decision
	}{
		{"loading blocks quietly", StateLoading, RouteProtected, Decision{Allow: false}},
		{"unauthenticated on public", StateUnauthenticated, RoutePublic, Decision{Allow: true}},
		{"unauthenticated on login", StateUnauthenticated, RouteAuth, Decision{Allow: true}},
		{"unauthenticated on protected", StateUnauthenticated, RouteProtected, Decision{Allow: false, RedirectTo: LoginSurface}},
		{"unverified on protected", StateUnverified, RouteProtected, Decision{Allow: false, RedirectTo: VerificationSurface}},
		{"unverified on public", StateUnverified, RoutePublic, Decision{Allow: true}},
		{"unverified on auth", StateUnverified, RouteAuth, Decision{Allow: true}},
		{"verified on login", StateVerified, RouteAuth, Decision{Allow: false, RedirectTo: DashboardSurface}},
		{"verified on protected", StateVerified, RouteProtected, Decision{Allow: true}},
		{"verified on public", StateVerified, RoutePublic, Decision{Allow: true}},
	}
	for _, tc := range cases {
		if got := Decide(tc.state, tc.class); got != tc.want {
			t.Errorf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestStateString(t *testing.T) {
	if StateUnverified.String() != "authenticated-unverified" {
		t.Fatalf("got %q", StateUnverified.String())
	}
}
