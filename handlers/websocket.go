package handlers

import (
	"net/http"
	"os"
	"time"

	"spendsense/api/logger"
	"spendsense/api/mongodb"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		frontend := os.Getenv("FRONTEND_URL")
		if frontend == "" {
			// Development default
			return true
		}
		return r.Header.Get("Origin") == frontend
	},
}

// HandleExpenseFeedWS is the websocket variant of the live expense feed.
// The subscription dies with the connection, same teardown rule as SSE.
func HandleExpenseFeedWS(c *gin.Context) {
	claims, err := authenticateStream(c)
	if err != nil {
		logger.Get().Warn("websocket authentication failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Get().Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()

	sub, err := mongodb.WatchExpenses(c.Request.Context(), claims.Sub)
	if err != nil {
		logger.Get().Error("failed to open expense subscription",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "subscription failed"))
		return
	}
	defer sub.Cancel()

	logger.Get().Info("websocket expense feed established",
		zap.String("user_id", claims.Sub),
		zap.String("remote_addr", c.Request.RemoteAddr))

	// Read pump: its only job is to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				logger.Get().Warn("failed to write expense event",
					zap.String("user_id", claims.Sub),
					zap.Error(err))
				return
			}
		case <-closed:
			logger.Get().Info("websocket expense feed closed by client",
				zap.String("user_id", claims.Sub))
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
