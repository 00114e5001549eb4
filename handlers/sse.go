package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"spendsense/api/logger"
	"spendsense/api/middleware"
	"spendsense/api/models"
	"spendsense/api/mongodb"
	"spendsense/api/session"
	"spendsense/api/sse"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// authenticateStream verifies the token passed as a query parameter, the
// only channel EventSource clients have. Requires a verified session.
func authenticateStream(c *gin.Context) (*models.SupabaseClaims, error) {
	tokenString := c.DefaultQuery("token", "")
	if tokenString == "" {
		return nil, fmt.Errorf("missing or invalid token")
	}

	claims, err := middleware.VerifyToken(tokenString)
	state := session.Derive(claims, err)
	if state != session.StateVerified {
		decision := session.Decide(state, session.RouteProtected)
		return nil, fmt.Errorf("session state %s, client belongs on %s", state, decision.RedirectTo)
	}
	return claims, nil
}

// HandleAdvisorSSE streams advisor response chunks for one conversation
// until the [DONE] marker or disconnect. Only the conversation's owner may
// attach a stream.
func HandleAdvisorSSE(c *gin.Context) {
	claims, err := authenticateStream(c)
	if err != nil {
		logger.Get().Warn("SSE authentication failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conversationID := c.Param("conversationID")

	conversation, err := ownedConversation(conversationID, claims.Sub)
	if err != nil {
		logger.Get().Error("error fetching conversation",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if conversation == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	stream := sse.Register(conversationID)
	defer sse.Unregister(conversationID, stream)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.String(http.StatusInternalServerError, "Streaming unsupported!")
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-stream.Messages:
			if !ok {
				return false
			}
			c.Writer.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()
			return true
		case <-c.Request.Context().Done():
			return false
		case <-stream.Done:
			logger.Get().Info("advisor stream finished",
				zap.String("conversation_id", conversationID))
			return false
		}
	})
}

// HandleExpenseFeedSSE streams the user's live expense changes. The
// change-stream subscription is cancelled when the request context ends,
// so a listener can never outlive the session that opened it.
func HandleExpenseFeedSSE(c *gin.Context) {
	claims, err := authenticateStream(c)
	if err != nil {
		logger.Get().Warn("SSE authentication failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sub, err := mongodb.WatchExpenses(c.Request.Context(), claims.Sub)
	if err != nil {
		logger.Get().Error("failed to open expense subscription",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer sub.Cancel()

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.String(http.StatusInternalServerError, "Streaming unsupported!")
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	logger.Get().Info("expense feed opened", zap.String("user_id", claims.Sub))

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				return false
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				logger.Get().Error("failed to marshal expense event", zap.Error(err))
				return true
			}
			c.Writer.Write([]byte("data: " + string(payload) + "\n\n"))
			flusher.Flush()
			return true
		case <-c.Request.Context().Done():
			logger.Get().Info("expense feed closed", zap.String("user_id", claims.Sub))
			return false
		}
	})
}
