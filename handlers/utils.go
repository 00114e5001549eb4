package handlers

import (
	"net/http"

	"spendsense/api/events"
	"spendsense/api/logger"
	"spendsense/api/middleware"
	"spendsense/api/models"
	"spendsense/api/mongodb"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// currentClaims pulls the authenticated claims set by the auth middleware.
// When absent it writes the 401 itself and returns ok=false.
func currentClaims(c *gin.Context) (*models.SupabaseClaims, bool) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		logger.Get().Error("user not authenticated")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}
	return claims, true
}

// respondStoreError maps a store failure to a response. A permission
// rejection becomes a typed event on the bus plus a generic 403; anything
// else is a generic 500. Internals never reach the body.
func respondStoreError(c *gin.Context, userID, path string, op events.Operation, payload any, err error) {
	if mongodb.IsPermissionDenied(err) {
		perr := &events.PermissionError{
			Path:      path,
			Operation: op,
			Payload:   payload,
			Cause:     err,
		}
		if bus := events.FromContext(c); bus != nil {
			bus.Publish(userID, perr)
		}
		logger.Get().Error("store write denied",
			zap.String("user_id", userID),
			zap.String("path", path),
			zap.String("operation", string(op)))
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		return
	}

	logger.Get().Error("store operation failed",
		zap.String("user_id", userID),
		zap.String("path", path),
		zap.String("operation", string(op)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
