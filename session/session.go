// Package session models the auth gate as an explicit state machine:
// a session state derived from token claims, and a pure policy function
// deciding, per route class, whether to allow the request or where to send
// the client instead. Keeping the decision separate from the HTTP layer
// makes the redirect rules testable without a server.
package session

import "spendsense/api/models"

type State int

const (
	// StateLoading means the session has not been resolved yet; nothing is
	// allowed and nothing is redirected until it settles.
	StateLoading State = iota
	StateUnauthenticated
	StateUnverified
	StateVerified
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateUnverified:
		return "authenticated-unverified"
	case StateVerified:
		return "authenticated-verified"
	}
	return "unknown"
}

// RouteClass partitions the surface the same way the client router does.
type RouteClass int

const (
	// RoutePublic needs no session (landing, verification surface).
	RoutePublic RouteClass = iota
	// RouteAuth is for login/signup surfaces, pointless once verified.
	RouteAuth
	// RouteProtected is everything behind the gate (dashboard, API).
	RouteProtected
)

// Surfaces the policy can send a client to.
const (
	LoginSurface        = "/login"
	VerificationSurface = "/verify-email"
	DashboardSurface    = "/dashboard"
)

// Decision is a navigation intent: either the request may proceed, or the
// client belongs on RedirectTo.
type Decision struct {
	Allow      bool   `json:"allow"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// Derive maps the outcome of token verification to a session state.
// A verification error is treated as "no session", never as a hard failure.
func Derive(claims *models.SupabaseClaims, err error) State {
	if err != nil || claims == nil || claims.Sub == "" {
		return StateUnauthenticated
	}
	if !claims.UserMetadata.EmailVerified {
		return StateUnverified
	}
	return StateVerified
}

// Decide applies the routing policy:
//   - unauthenticated sessions are sent to the login surface for anything
//     non-public;
//   - unverified sessions are sent to the verification surface except on
//     public and auth routes;
//   - verified sessions on auth-only routes are sent to the dashboard.
func Decide(state State, class RouteClass) Decision {
	switch state {
	case StateLoading:
		return Decision{Allow: false}
	case StateUnauthenticated:
		if class == RoutePublic || class == RouteAuth {
			return Decision{Allow: true}
		}
		return Decision{Allow: false, RedirectTo: LoginSurface}
	case StateUnverified:
		if class == RoutePublic || class == RouteAuth {
			return Decision{Allow: true}
		}
		return Decision{Allow: false, RedirectTo: VerificationSurface}
	case StateVerified:
		if class == RouteAuth {
			return Decision{Allow: false, RedirectTo: DashboardSurface}
		}
		return Decision{Allow: true}
	}
	return Decision{Allow: false}
}
