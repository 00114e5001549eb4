package handlers

import (
	"net/http"

	"spendsense/api/logger"
	"spendsense/api/mongodb"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleGetConversationContext serves the stored financial snapshot to the
// prompt runtime. Internal surface, guarded by the X-API-Key middleware.
func HandleGetConversationContext(c *gin.Context) {
	conversationID := c.Param("conversationID")

	conversationContext, err := mongodb.GetConversationContext(c, conversationID)
	if err != nil {
		logger.Get().Error("error fetching conversation context",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if conversationContext == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Context not found"})
		return
	}

	c.JSON(http.StatusOK, conversationContext)
}
