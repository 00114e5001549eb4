package models

import "github.com/golang-jwt/jwt/v5"

// SupabaseClaims is the claim set Supabase puts in its access tokens.
// EmailVerified lives in user_metadata; it drives the verification gate.
type SupabaseClaims struct {
	jwt.RegisteredClaims
	Email        string `json:"email"`
	Sub          string `json:"sub"`
	Role         string `json:"role"`
	UserMetadata struct {
		EmailVerified bool `json:"email_verified"`
	} `json:"user_metadata"`
	AppMetadata struct {
		Provider string `json:"provider"`
	} `json:"app_metadata"`
}
