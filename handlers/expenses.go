package handlers

import (
	"context"
	"errors"
	"net/http"

	"spendsense/api/events"
	"spendsense/api/llm"
	"spendsense/api/logger"
	"spendsense/api/models"
	"spendsense/api/mongodb"
	"spendsense/api/qdrant"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

type ExpenseRequest struct {
	Name     string          `json:"name"`
	Amount   float64         `json:"amount"`
	Category models.Category `json:"category"`
}

func HandleListExpenses(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	expenses, err := mongodb.ListExpenses(c, claims.Sub)
	if err != nil {
		respondStoreError(c, claims.Sub, mongodb.ProfilePath(claims.Sub)+"/expenses", events.OpRead, nil, err)
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	c.JSON(http.StatusOK, expenses)
}

func HandleCreateExpense(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Get().Error("error binding JSON", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense := &models.Expense{
		UserID:   claims.Sub,
		Name:     req.Name,
		Amount:   req.Amount,
		Category: req.Category,
	}
	if err := expense.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := mongodb.CreateExpense(c, expense); err != nil {
		respondStoreError(c, claims.Sub, mongodb.ExpensePath(claims.Sub, ""), events.OpCreate, expense, err)
		return
	}

	logger.Get().Info("expense created",
		zap.String("user_id", claims.Sub),
		zap.String("expense_id", expense.ID))
	go indexExpense(*expense)

	c.JSON(http.StatusOK, expense)
}

func HandleUpdateExpense(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}
	expenseID := c.Param("id")

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Get().Error("error binding JSON", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense := &models.Expense{
		ID:       expenseID,
		UserID:   claims.Sub,
		Name:     req.Name,
		Amount:   req.Amount,
		Category: req.Category,
	}
	if err := expense.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := mongodb.UpdateExpense(c, claims.Sub, expenseID, expense)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	if err != nil {
		respondStoreError(c, claims.Sub, mongodb.ExpensePath(claims.Sub, expenseID), events.OpUpdate, expense, err)
		return
	}

	logger.Get().Info("expense updated",
		zap.String("user_id", claims.Sub),
		zap.String("expense_id", expenseID))
	go indexExpense(*expense)

	c.JSON(http.StatusOK, expense)
}

func HandleDeleteExpense(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}
	expenseID := c.Param("id")

	err := mongodb.DeleteExpense(c, claims.Sub, expenseID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	if err != nil {
		respondStoreError(c, claims.Sub, mongodb.ExpensePath(claims.Sub, expenseID), events.OpDelete, nil, err)
		return
	}

	logger.Get().Info("expense deleted",
		zap.String("user_id", claims.Sub),
		zap.String("expense_id", expenseID))

	if qdrant.Enabled() {
		go func() {
			if err := qdrant.DeleteExpense(context.Background(), expenseID); err != nil {
				logger.Get().Warn("failed to delete expense vector",
					zap.String("expense_id", expenseID),
					zap.Error(err))
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// indexExpense embeds and upserts the expense vector, best effort; the
// mutation has already succeeded, so failures only cost retrieval quality.
func indexExpense(expense models.Expense) {
	if !qdrant.Enabled() {
		return
	}
	ctx := context.Background()

	vector, err := llm.EmbedText(ctx, expense.Name+" "+string(expense.Category))
	if err != nil {
		logger.Get().Warn("failed to embed expense",
			zap.String("expense_id", expense.ID),
			zap.Error(err))
		return
	}
	if err := qdrant.UpsertExpense(ctx, &expense, vector); err != nil {
		logger.Get().Warn("failed to index expense",
			zap.String("expense_id", expense.ID),
			zap.Error(err))
	}
}
