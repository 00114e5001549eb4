package handlers

import (
	"fmt"
	"net/http"
	"os"

	"spendsense/api/db"
	"spendsense/api/logger"
	"spendsense/api/models"
	"spendsense/api/mongodb"
	"spendsense/api/qdrant"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleEnsureAccount records the identity on first contact. Called by the
// client right after signup; idempotent. A returning identity whose account
// was deleted is reactivated, since deletion keeps the row with
// status=deleted.
func HandleEnsureAccount(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	account, err := db.GetAccount(claims.Sub)
	if err != nil {
		logger.Get().Error("error fetching account",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if account != nil && account.Status == models.AccountStatusDeleted {
		if err := db.UpdateAccountStatus(claims.Sub, models.AccountStatusActive); err != nil {
			logger.Get().Error("error reactivating account",
				zap.String("user_id", claims.Sub),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		logger.Get().Info("account reactivated", zap.String("user_id", claims.Sub))
		c.JSON(http.StatusOK, gin.H{"message": "Account ready"})
		return
	}

	if err := db.EnsureAccount(claims.Sub, claims.Email); err != nil {
		logger.Get().Error("error ensuring account",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account ready"})
}

// HandleDeleteAccount removes everything the user owns across every store,
// then the identity itself. Each step logs and continues on failure so one
// broken store does not strand data in the others.
func HandleDeleteAccount(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}
	logger.Get().Info("account deletion started", zap.String("user_id", claims.Sub))

	if err := db.DeleteAccountData(claims.Sub); err != nil {
		logger.Get().Error("error deleting Postgres data",
			zap.String("user_id", claims.Sub), zap.Error(err))
	}

	if err := mongodb.DeleteProfile(c, claims.Sub); err != nil {
		logger.Get().Error("error deleting profile",
			zap.String("user_id", claims.Sub), zap.Error(err))
	}
	if err := mongodb.DeleteExpensesByUserID(c, claims.Sub); err != nil {
		logger.Get().Error("error deleting expenses",
			zap.String("user_id", claims.Sub), zap.Error(err))
	}
	if err := mongodb.DeleteContextsByUserID(c, claims.Sub); err != nil {
		logger.Get().Error("error deleting conversation contexts",
			zap.String("user_id", claims.Sub), zap.Error(err))
	}
	if err := mongodb.DeleteMessagesByUserID(c, claims.Sub); err != nil {
		logger.Get().Error("error deleting messages",
			zap.String("user_id", claims.Sub), zap.Error(err))
	}

	if qdrant.Enabled() {
		if err := qdrant.DeleteExpensesByUserID(claims.Sub); err != nil {
			logger.Get().Error("error deleting expense vectors",
				zap.String("user_id", claims.Sub), zap.Error(err))
		}
	}

	if err := deleteSupabaseUser(claims.Sub); err != nil {
		logger.Get().Error("error deleting identity",
			zap.String("user_id", claims.Sub), zap.Error(err))
	}

	logger.Get().Info("account deletion completed", zap.String("user_id", claims.Sub))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// deleteSupabaseUser removes the identity through the provider's admin API.
func deleteSupabaseUser(userID string) error {
	url := fmt.Sprintf("%s/auth/v1/admin/users/%s", os.Getenv("SUPABASE_URL"), userID)

	req, err := http.NewRequest("DELETE", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	serviceRoleKey := os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	req.Header.Set("apikey", serviceRoleKey)
	req.Header.Set("Authorization", "Bearer "+serviceRoleKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code deleting user: %d", resp.StatusCode)
	}

	return nil
}
