package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"spendsense/api/db"
	"spendsense/api/kafka"
	"spendsense/api/llm"
	"spendsense/api/logger"
	"spendsense/api/models"
	"spendsense/api/mongodb"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NewConversationRequest struct {
	Message string `json:"message" binding:"required"`
}

var getConversation = db.GetConversationByID

// ownedConversation resolves the conversation and checks it belongs to
// userID. Unknown, malformed, and foreign ids all come back nil so callers
// answer a uniform 404 without leaking which ids exist.
func ownedConversation(conversationID, userID string) (*models.Conversation, error) {
	id, err := uuid.Parse(conversationID)
	if err != nil {
		return nil, nil
	}
	conversation, err := getConversation(id)
	if err != nil {
		return nil, err
	}
	if conversation == nil || conversation.UserID != userID {
		return nil, nil
	}
	return conversation, nil
}

// HandleCreateConversation starts an advisor conversation: title from the
// opening message, metadata row in Postgres, financial-context snapshot in
// the document store, then the opening message goes to the runtime. The
// response returns before the runtime answers; the answer streams over SSE.
func HandleCreateConversation(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req NewConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Get().Error("error binding JSON", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := llm.GenerateChatTitle(c, req.Message)
	if err != nil {
		logger.Get().Error("error generating chat title", zap.Error(err))
		title = "New Chat"
	}

	conversation, err := db.CreateConversation(claims.Sub, title)
	if err != nil {
		logger.Get().Error("error creating conversation",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	conversationContext, err := buildConversationContext(c, claims.Sub, conversation.ID.String())
	if err != nil {
		logger.Get().Error("error building conversation context",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := mongodb.CreateConversationContext(c, conversationContext); err != nil {
		logger.Get().Error("error saving conversation context",
			zap.String("conversation_id", conversation.ID.String()),
			zap.Error(err))

		if err := db.DeleteConversation(conversation.ID.String()); err != nil {
			logger.Get().Error("error rolling back conversation",
				zap.String("conversation_id", conversation.ID.String()),
				zap.Error(err))
		}

		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	logger.Get().Info("conversation created",
		zap.String("user_id", claims.Sub),
		zap.String("conversation_id", conversation.ID.String()))

	msg := &models.Message{
		ConversationID: conversation.ID.String(),
		Text:           req.Message,
	}
	c.JSON(http.StatusOK, gin.H{
		"conversation_id":    conversation.ID.String(),
		"conversation_title": conversation.Title,
	})
	go func() {
		if err := processUserMessage(context.Background(), claims.Sub, msg); err != nil {
			logger.Get().Error("error forwarding opening message",
				zap.String("conversation_id", msg.ConversationID),
				zap.Error(err))
		}
	}()
}

// HandleDeleteConversation removes a conversation and everything under it:
// messages and the context snapshot in the document store, then the
// metadata row.
func HandleDeleteConversation(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")

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

	if err := mongodb.DeleteMessages(c, conversationID); err != nil {
		logger.Get().Error("error deleting messages",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if err := mongodb.DeleteConversationContext(c, conversationID); err != nil {
		logger.Get().Error("error deleting conversation context",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if err := db.DeleteConversation(conversationID); err != nil {
		logger.Get().Error("error deleting conversation",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	logger.Get().Info("conversation deleted",
		zap.String("user_id", claims.Sub),
		zap.String("conversation_id", conversationID))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func HandleGetConversations(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	conversations, err := db.GetConversationsByUserID(claims.Sub)
	if err != nil {
		logger.Get().Error("error fetching conversations",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, conversations)
}

// buildConversationContext snapshots the user's finances for the runtime:
// profile numbers plus the current expense list, newest first.
func buildConversationContext(c *gin.Context, userID, conversationID string) (*models.Context, error) {
	profile, err := mongodb.GetProfile(c, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}

	expenses, err := mongodb.ListExpenses(c, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching expenses: %w", err)
	}

	conversationContext := &models.Context{
		ConversationID: conversationID,
		UserID:         userID,
		CreatedAt:      time.Now().Unix(),
		Expenses:       expenses,
	}
	if profile != nil {
		conversationContext.Name = profile.DisplayName
		conversationContext.Income = profile.Income
		conversationContext.SavingsGoal = profile.SavingsGoal
	}

	return conversationContext, nil
}

// processUserMessage persists the message and hands it to the runtime via
// Kafka.
func processUserMessage(ctx context.Context, userID string, msg *models.Message) error {
	msg.UserID = userID
	msg.Sender = "UserMessage"
	msg.Timestamp = time.Now().Unix()

	if err := mongodb.CreateMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := kafka.ProduceMessage(kafka.MessageTopic, messageBytes); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	return nil
}
