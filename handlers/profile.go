package handlers

import (
	"net/http"

	"spendsense/api/events"
	"spendsense/api/logger"
	"spendsense/api/models"
	"spendsense/api/mongodb"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileRequest covers both signup variants: income may arrive at profile
// creation or stay 0 and be set later through an update.
type ProfileRequest struct {
	DisplayName string  `json:"display_name"`
	Income      float64 `json:"income"`
	Currency    string  `json:"currency"`
	SavingsGoal float64 `json:"savings_goal"`
	Bio         string  `json:"bio"`
}

func (r ProfileRequest) toProfile(userID string) *models.UserProfile {
	return &models.UserProfile{
		UserID:      userID,
		DisplayName: r.DisplayName,
		Income:      r.Income,
		Currency:    r.Currency,
		SavingsGoal: r.SavingsGoal,
		Bio:         r.Bio,
	}
}

func HandleCreateProfile(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Get().Error("error binding JSON", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := req.toProfile(claims.Sub)
	if err := profile.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := mongodb.GetProfile(c, claims.Sub)
	if err != nil {
		respondStoreError(c, claims.Sub, mongodb.ProfilePath(claims.Sub), events.OpRead, nil, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Profile already exists"})
		return
	}

	if err := mongodb.CreateProfile(c, profile); err != nil {
		respondStoreError(c, claims.Sub, mongodb.ProfilePath(claims.Sub), events.OpCreate, profile, err)
		return
	}

	logger.Get().Info("profile created successfully",
		zap.String("user_id", claims.Sub))
	c.JSON(http.StatusOK, profile)
}

func HandleGetProfile(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	profile, err := mongodb.GetProfile(c, claims.Sub)
	if err != nil {
		respondStoreError(c, claims.Sub, mongodb.ProfilePath(claims.Sub), events.OpRead, nil, err)
		return
	}

	if profile == nil {
		logger.Get().Info("no profile found",
			zap.String("user_id", claims.Sub))
		c.JSON(http.StatusOK, gin.H{"profile_missing": true})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func HandleUpdateProfile(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Get().Error("error binding JSON", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := req.toProfile(claims.Sub)
	if err := profile.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := mongodb.GetProfile(c, claims.Sub)
	if err != nil {
		respondStoreError(c, claims.Sub, mongodb.ProfilePath(claims.Sub), events.OpRead, nil, err)
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	profile.CreatedAt = existing.CreatedAt

	if err := mongodb.ReplaceProfile(c, claims.Sub, profile); err != nil {
		respondStoreError(c, claims.Sub, mongodb.ProfilePath(claims.Sub), events.OpUpdate, profile, err)
		return
	}

	logger.Get().Info("profile updated successfully",
		zap.String("user_id", claims.Sub))
	c.JSON(http.StatusOK, profile)
}
