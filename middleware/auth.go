package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"spendsense/api/logger"
	"spendsense/api/models"
	"spendsense/api/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const UserKey = "user"

// VerifyToken parses and verifies a Supabase access token. Shared by the
// header-based middleware and the SSE/websocket query-param path.
func VerifyToken(tokenString string) (*models.SupabaseClaims, error) {
	claims := &models.SupabaseClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		secret := os.Getenv("SUPABASE_JWT_SECRET")
		if secret == "" {
			return nil, fmt.Errorf("SUPABASE_JWT_SECRET environment variable not set")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Issuer != os.Getenv("SUPABASE_URL")+"/auth/v1" {
		return nil, fmt.Errorf("invalid token issuer")
	}
	return claims, nil
}

// AuthMiddleware verifies the bearer token and rejects requests whose
// session state does not pass the protected-route policy. The 401/403
// bodies carry the redirect target so the client can navigate.
func AuthMiddleware(c *gin.Context) {
	tokenString := extractToken(c.Request)
	if tokenString == "" {
		decision := session.Decide(session.StateUnauthenticated, session.RouteProtected)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token", "redirect_to": decision.RedirectTo})
		c.Abort()
		return
	}

	claims, err := VerifyToken(tokenString)
	state := session.Derive(claims, err)
	if state == session.StateUnauthenticated {
		// Session errors are logged and treated as "no session".
		logger.Get().Warn("token verification failed", zap.Error(err))
		decision := session.Decide(state, session.RouteProtected)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "redirect_to": decision.RedirectTo})
		c.Abort()
		return
	}

	c.Set(UserKey, claims)
	c.Next()
}

// RequireVerified gates routes that demand a verified email. Must run after
// AuthMiddleware.
func RequireVerified(c *gin.Context) {
	claims := ClaimsFromContext(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		c.Abort()
		return
	}
	state := session.Derive(claims, nil)
	decision := session.Decide(state, session.RouteProtected)
	if !decision.Allow {
		c.JSON(http.StatusForbidden, gin.H{"error": "Email not verified", "redirect_to": decision.RedirectTo})
		c.Abort()
		return
	}
	c.Next()
}

// ClaimsFromContext returns the claims set by AuthMiddleware, or nil.
func ClaimsFromContext(c *gin.Context) *models.SupabaseClaims {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*models.SupabaseClaims)
	return claims
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
