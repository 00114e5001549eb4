package llm

import (
	"context"
	"fmt"
	"strings"

	"spendsense/api/budget"
	"spendsense/api/models"
)

// AdvisorQuery is everything the advisor prompt is assembled from. Report
// is derived server-side from Income and Expenses so the model reasons over
// the same 50/30/20 numbers the dashboard shows.
type AdvisorQuery struct {
	Query            string
	Income           float64
	SavingsGoal      float64
	Expenses         []models.Expense
	RelevantExpenses []models.Expense // retrieval hits, may be empty
}

const advisorSystem = "You are a personal finance advisor for a budgeting app that uses the 50/30/20 rule " +
	"(50% of income to Needs, 30% to Wants, 20% to Savings). Answer the user's question using the " +
	"financial context provided. Be concrete and concise; do not invent numbers that are not in the context."

// Advise sends the query plus assembled financial context to the prompt
// runtime and returns the advisor's answer.
func Advise(ctx context.Context, q AdvisorQuery) (string, error) {
	messages := []ChatMessage{
		{Role: "system", Content: advisorSystem},
		{Role: "system", Content: "Financial context:\n" + buildContext(q)},
		{Role: "user", Content: q.Query},
	}
	return chatCompletion(ctx, messages, 500, 0.7)
}

func buildContext(q AdvisorQuery) string {
	var b strings.Builder

	report := budget.Compute(q.Income, q.Expenses)

	fmt.Fprintf(&b, "Monthly income: %.2f\n", q.Income)
	if q.SavingsGoal > 0 {
		fmt.Fprintf(&b, "Savings goal: %.2f\n", q.SavingsGoal)
	}
	for _, line := range report.Categories {
		status := "under budget"
		if line.OverBudget {
			status = fmt.Sprintf("OVER budget by %.2f", line.Over)
		}
		fmt.Fprintf(&b, "%s: allocated %.2f, spent %.2f (%s)\n",
			line.Category, line.Allocated, line.Spent, status)
	}
	fmt.Fprintf(&b, "Total spent: %.2f, balance: %.2f, savings rate: %.1f%%\n",
		report.TotalSpent, report.Balance, report.SavingsRatePercent)

	if len(q.Expenses) > 0 {
		b.WriteString("Expenses:\n")
		for _, e := range q.Expenses {
			fmt.Fprintf(&b, "- %s: %.2f (%s)\n", e.Name, e.Amount, e.Category)
		}
	}
	if len(q.RelevantExpenses) > 0 {
		b.WriteString("Expenses most relevant to the question:\n")
		for _, e := range q.RelevantExpenses {
			fmt.Fprintf(&b, "- %s: %.2f (%s)\n", e.Name, e.Amount, e.Category)
		}
	}
	return b.String()
}
