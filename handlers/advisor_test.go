package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"spendsense/api/middleware"
	"spendsense/api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func verifiedClaims(sub string) *models.SupabaseClaims {
	claims := &models.SupabaseClaims{Sub: sub, Email: sub + "@example.com"}
	claims.UserMetadata.EmailVerified = true
	return claims
}

func authedRouter(handler gin.HandlerFunc, claims *models.SupabaseClaims) *gin.Engine {
	router := gin.New()
	router.POST("/advisor", func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.UserKey, claims)
		}
		handler(c)
	})
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdvisorRequiresAuthentication(t *testing.T) {
	router := authedRouter(HandleFinancialAdvisor, nil)
	w := postJSON(t, router, "/advisor", gin.H{"query": "how am I doing?"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdvisorRejectsInvalidInput(t *testing.T) {
	income := 3000.0
	negative := -1.0

	cases := []struct {
		name string
		body any
	}{
		{"empty query", gin.H{"query": ""}},
		{"whitespace query", gin.H{"query": "   "}},
		{"missing query", gin.H{}},
		{"negative income", AdvisorRequest{Query: "q", Income: &negative}},
		{"expenses without income", gin.H{
			"query":    "q",
			"expenses": []gin.H{{"name": "rent", "amount": 1000, "category": "Needs"}},
		}},
		{"expense with empty name", AdvisorRequest{Query: "q", Income: &income,
			Expenses: []AdvisorExpense{{Name: "", Amount: 10, Category: models.CategoryNeeds}}}},
		{"expense with zero amount", AdvisorRequest{Query: "q", Income: &income,
			Expenses: []AdvisorExpense{{Name: "rent", Amount: 0, Category: models.CategoryNeeds}}}},
		{"expense with bad category", AdvisorRequest{Query: "q", Income: &income,
			Expenses: []AdvisorExpense{{Name: "rent", Amount: 10, Category: "Misc"}}}},
		{"non-numeric income", gin.H{"query": "q", "income": "lots"}},
	}

	router := authedRouter(HandleFinancialAdvisor, verifiedClaims("u1"))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, router, "/advisor", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Invalid input"}`, w.Body.String())
		})
	}
}

func TestAdvisorRequestValidate(t *testing.T) {
	income := 2000.0
	zero := 0.0

	stored := AdvisorRequest{Query: "how am I doing?"}
	assert.True(t, stored.validate())
	assert.False(t, stored.stateless())

	stateless := AdvisorRequest{
		Query:  "any tips?",
		Income: &income,
		Expenses: []AdvisorExpense{
			{Name: "rent", Amount: 1200, Category: models.CategoryNeeds},
		},
	}
	assert.True(t, stateless.validate())
	assert.True(t, stateless.stateless())

	// Zero income is legal; the budget engine defines that case.
	zeroIncome := AdvisorRequest{Query: "q", Income: &zero}
	assert.True(t, zeroIncome.validate())

	// Empty expense array with income is the income-only variant.
	incomeOnly := AdvisorRequest{Query: "q", Income: &income, Expenses: []AdvisorExpense{}}
	assert.True(t, incomeOnly.validate())
}
