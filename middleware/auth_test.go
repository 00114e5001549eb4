package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spendsense/api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-jwt-secret"
	testIssuer = "https://project.supabase.co"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, verified bool, issuer string) string {
	t.Helper()
	claims := &models.SupabaseClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer + "/auth/v1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Sub:   "user-1",
		Email: "user-1@example.com",
	}
	claims.UserMetadata.EmailVerified = verified

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func gatedRouter() *gin.Engine {
	router := gin.New()
	protected := router.Group("/api")
	protected.Use(AuthMiddleware)
	protected.GET("/session", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	verified := protected.Group("")
	verified.Use(RequireVerified)
	verified.GET("/expenses", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func redirectTarget(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		RedirectTo string `json:"redirect_to"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.RedirectTo
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("SUPABASE_JWT_SECRET", testSecret)
	t.Setenv("SUPABASE_URL", testIssuer)
	router := gatedRouter()

	t.Run("missing token sends client to login", func(t *testing.T) {
		w := get(router, "/api/session", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "/login", redirectTarget(t, w))
	})

	t.Run("garbage token sends client to login", func(t *testing.T) {
		w := get(router, "/api/session", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "/login", redirectTarget(t, w))
	})

	t.Run("wrong issuer is rejected", func(t *testing.T) {
		w := get(router, "/api/session", signToken(t, true, "https://evil.example.com"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("verified token passes both gates", func(t *testing.T) {
		token := signToken(t, true, testIssuer)
		assert.Equal(t, http.StatusOK, get(router, "/api/session", token).Code)
		assert.Equal(t, http.StatusOK, get(router, "/api/expenses", token).Code)
	})

	t.Run("unverified token reaches session but not protected routes", func(t *testing.T) {
		token := signToken(t, false, testIssuer)
		assert.Equal(t, http.StatusOK, get(router, "/api/session", token).Code)

		w := get(router, "/api/expenses", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "/verify-email", redirectTarget(t, w))
	})
}

func TestVerifyTokenRejectsWrongAlgorithm(t *testing.T) {
	t.Setenv("SUPABASE_JWT_SECRET", testSecret)
	t.Setenv("SUPABASE_URL", testIssuer)

	// alg=none tokens must never verify.
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer: testIssuer + "/auth/v1",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = VerifyToken(token)
	assert.Error(t, err)
}
