package handlers

import (
	"net/http"

	"spendsense/api/logger"
	"spendsense/api/models"
	"spendsense/api/mongodb"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GetMessagesRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
}

func HandleSendMessage(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req models.Message
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Get().Error("error binding JSON", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ConversationID == "" || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversation_id and message are required"})
		return
	}

	conversation, err := ownedConversation(req.ConversationID, claims.Sub)
	if err != nil {
		logger.Get().Error("error fetching conversation",
			zap.String("conversation_id", req.ConversationID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if conversation == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	if err := processUserMessage(c, claims.Sub, &req); err != nil {
		logger.Get().Error("error processing message",
			zap.String("conversation_id", req.ConversationID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent successfully"})
}

func HandleGetMessages(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req GetMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Get().Error("error binding JSON", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messages, err := mongodb.GetMessagesByConversationID(c, claims.Sub, req.ConversationID)
	if err != nil {
		logger.Get().Error("error fetching messages",
			zap.String("conversation_id", req.ConversationID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if len(messages) == 0 {
		c.JSON(http.StatusOK, []models.Message{})
		return
	}
	c.JSON(http.StatusOK, messages)
}
