package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spendsense/api/middleware"
	"spendsense/api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubConversation(t *testing.T, conv *models.Conversation, err error) {
	t.Helper()
	orig := getConversation
	getConversation = func(id uuid.UUID) (*models.Conversation, error) {
		return conv, err
	}
	t.Cleanup(func() { getConversation = orig })
}

func streamToken(t *testing.T, verified bool) string {
	t.Helper()
	claims := &models.SupabaseClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://project.supabase.co/auth/v1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Sub: "u1",
	}
	claims.UserMetadata.EmailVerified = verified

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("stream-test-secret"))
	require.NoError(t, err)
	return signed
}

func setStreamEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SUPABASE_JWT_SECRET", "stream-test-secret")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
}

func TestOwnedConversation(t *testing.T) {
	convID := uuid.New()

	t.Run("owner resolves", func(t *testing.T) {
		stubConversation(t, &models.Conversation{ID: convID, UserID: "u1"}, nil)
		conv, err := ownedConversation(convID.String(), "u1")
		require.NoError(t, err)
		require.NotNil(t, conv)
		assert.Equal(t, convID, conv.ID)
	})

	t.Run("foreign conversation is invisible", func(t *testing.T) {
		stubConversation(t, &models.Conversation{ID: convID, UserID: "someone-else"}, nil)
		conv, err := ownedConversation(convID.String(), "u1")
		require.NoError(t, err)
		assert.Nil(t, conv)
	})

	t.Run("unknown id is invisible", func(t *testing.T) {
		stubConversation(t, nil, nil)
		conv, err := ownedConversation(convID.String(), "u1")
		require.NoError(t, err)
		assert.Nil(t, conv)
	})

	t.Run("malformed id is invisible", func(t *testing.T) {
		conv, err := ownedConversation("not-a-uuid", "u1")
		require.NoError(t, err)
		assert.Nil(t, conv)
	})
}

func TestSendMessageRejectsForeignConversation(t *testing.T) {
	convID := uuid.New()
	stubConversation(t, &models.Conversation{ID: convID, UserID: "someone-else"}, nil)

	router := gin.New()
	router.POST("/messages", func(c *gin.Context) {
		c.Set(middleware.UserKey, verifiedClaims("u1"))
		HandleSendMessage(c)
	})

	w := postJSON(t, router, "/messages", gin.H{
		"conversation_id": convID.String(),
		"message":         "how is my budget?",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Conversation not found"}`, w.Body.String())
}

func TestDeleteConversationRejectsForeignConversation(t *testing.T) {
	stubConversation(t, &models.Conversation{ID: uuid.New(), UserID: "someone-else"}, nil)

	router := gin.New()
	router.DELETE("/conversations/:id", func(c *gin.Context) {
		c.Set(middleware.UserKey, verifiedClaims("u1"))
		HandleDeleteConversation(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/conversations/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdvisorSSERejectsForeignConversation(t *testing.T) {
	setStreamEnv(t)
	stubConversation(t, &models.Conversation{ID: uuid.New(), UserID: "someone-else"}, nil)

	router := gin.New()
	router.GET("/sse/:conversationID", HandleAdvisorSSE)

	req := httptest.NewRequest(http.MethodGet,
		"/sse/"+uuid.NewString()+"?token="+streamToken(t, true), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdvisorSSERejectsUnverifiedSession(t *testing.T) {
	setStreamEnv(t)

	router := gin.New()
	router.GET("/sse/:conversationID", HandleAdvisorSSE)

	req := httptest.NewRequest(http.MethodGet,
		"/sse/"+uuid.NewString()+"?token="+streamToken(t, false), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
