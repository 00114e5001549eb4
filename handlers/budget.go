package handlers

import (
	"net/http"

	"spendsense/api/budget"
	"spendsense/api/events"
	"spendsense/api/mongodb"

	"github.com/gin-gonic/gin"
)

// HandleGetBudget returns the 50/30/20 report for the authenticated user:
// stored income plus the live expense list run through the engine.
func HandleGetBudget(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	profile, err := mongodb.GetProfile(c, claims.Sub)
	if err != nil {
		respondStoreError(c, claims.Sub, mongodb.ProfilePath(claims.Sub), events.OpRead, nil, err)
		return
	}

	// No profile yet means income 0; the engine handles that without
	// dividing by zero.
	var income float64
	if profile != nil {
		income = profile.Income
	}

	expenses, err := mongodb.ListExpenses(c, claims.Sub)
	if err != nil {
		respondStoreError(c, claims.Sub, mongodb.ProfilePath(claims.Sub)+"/expenses", events.OpRead, nil, err)
		return
	}

	c.JSON(http.StatusOK, budget.Compute(income, expenses))
}
