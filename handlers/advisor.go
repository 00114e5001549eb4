package handlers

import (
	"net/http"
	"strings"

	"spendsense/api/events"
	"spendsense/api/llm"
	"spendsense/api/logger"
	"spendsense/api/models"
	"spendsense/api/mongodb"
	"spendsense/api/qdrant"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdvisorRequest covers both endpoint variants. When Income or Expenses are
// present the request is self-contained (the stateless "tip" variant);
// otherwise the stored profile and expense list supply the context.
type AdvisorRequest struct {
	Query    string           `json:"query"`
	Income   *float64         `json:"income,omitempty"`
	Expenses []AdvisorExpense `json:"expenses,omitempty"`
}

type AdvisorExpense struct {
	Name     string          `json:"name"`
	Amount   float64         `json:"amount"`
	Category models.Category `json:"category"`
}

func (r AdvisorRequest) stateless() bool {
	return r.Income != nil || r.Expenses != nil
}

// validate enforces the endpoint contract: non-empty query, and for the
// stateless variant a numeric non-negative income plus well-formed items.
func (r AdvisorRequest) validate() bool {
	if strings.TrimSpace(r.Query) == "" {
		return false
	}
	if !r.stateless() {
		return true
	}
	if r.Income == nil || *r.Income < 0 {
		return false
	}
	for _, e := range r.Expenses {
		if strings.TrimSpace(e.Name) == "" || e.Amount <= 0 || !e.Category.Valid() {
			return false
		}
	}
	return true
}

// HandleFinancialAdvisor answers a one-shot advisor question. Failures
// reach the client as a generic message only.
func HandleFinancialAdvisor(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	var req AdvisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if !req.validate() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if req.stateless() {
		answer, err := llm.Advise(c, llm.AdvisorQuery{
			Query:    req.Query,
			Income:   *req.Income,
			Expenses: toExpenses(claims.Sub, req.Expenses),
		})
		if err != nil {
			logger.Get().Error("advisor request failed",
				zap.String("user_id", claims.Sub),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate advice"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tip": answer})
		return
	}

	query := llm.AdvisorQuery{Query: req.Query}

	profile, err := mongodb.GetProfile(c, claims.Sub)
	if err != nil {
		respondStoreError(c, claims.Sub, mongodb.ProfilePath(claims.Sub), events.OpRead, nil, err)
		return
	}
	if profile != nil {
		query.Income = profile.Income
		query.SavingsGoal = profile.SavingsGoal
	}

	expenses, err := mongodb.ListExpenses(c, claims.Sub)
	if err != nil {
		respondStoreError(c, claims.Sub, mongodb.ProfilePath(claims.Sub)+"/expenses", events.OpRead, nil, err)
		return
	}
	query.Expenses = expenses
	query.RelevantExpenses = retrieveRelevant(c, claims.Sub, req.Query)

	answer, err := llm.Advise(c, query)
	if err != nil {
		logger.Get().Error("advisor request failed",
			zap.String("user_id", claims.Sub),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate advice"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func toExpenses(userID string, items []AdvisorExpense) []models.Expense {
	expenses := make([]models.Expense, 0, len(items))
	for _, e := range items {
		expenses = append(expenses, models.Expense{
			UserID:   userID,
			Name:     e.Name,
			Amount:   e.Amount,
			Category: e.Category,
		})
	}
	return expenses
}

// retrieveRelevant searches the vector index for expenses related to the
// question. Retrieval is best effort; on any failure the advisor answers
// from the full list alone.
func retrieveRelevant(c *gin.Context, userID, query string) []models.Expense {
	if !qdrant.Enabled() {
		return nil
	}

	vector, err := llm.EmbedText(c, query)
	if err != nil {
		logger.Get().Warn("failed to embed advisor query",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil
	}
	hits, err := qdrant.SearchExpenses(c, userID, vector, 5)
	if err != nil {
		logger.Get().Warn("expense retrieval failed",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil
	}
	return hits
}
