// Package budget implements the 50/30/20 allocation engine: a pure mapping
// from (monthly income, logged expenses) to per-category budget lines and
// aggregate totals. No I/O, no clock, deterministic.
package budget

import "spendsense/api/models"

// Weights is the fixed allocation policy: 50% Needs, 30% Wants, 20% Savings.
// It is a policy constant, not user-configurable.
var Weights = map[models.Category]float64{
	models.CategoryNeeds:   0.50,
	models.CategoryWants:   0.30,
	models.CategorySavings: 0.20,
}

// CategoryReport is one budget line. Spent is never clamped to the
// allocation; when it exceeds it, OverBudget is set and Over carries the
// excess so the caller can style over/under states differently.
type CategoryReport struct {
	Category    models.Category `json:"category"`
	Allocated   float64         `json:"allocated"`
	Spent       float64         `json:"spent"`
	Remaining   float64         `json:"remaining"`
	PercentUsed float64         `json:"percent_used"`
	OverBudget  bool            `json:"over_budget"`
	Over        float64         `json:"over"`
}

type Report struct {
	Income             float64          `json:"income"`
	Categories         []CategoryReport `json:"categories"`
	TotalSpent         float64          `json:"total_spent"`
	Balance            float64          `json:"balance"`
	SavingsRatePercent float64          `json:"savings_rate_percent"`
}

// Compute builds the budget report for the given income and expense list.
// Expenses with an unknown category are ignored. income=0 yields zero
// allocations and PercentUsed 0 everywhere.
func Compute(income float64, expenses []models.Expense) Report {
	spent := make(map[models.Category]float64, len(Weights))
	var totalSpent float64
	for _, e := range expenses {
		if !e.Category.Valid() {
			continue
		}
		spent[e.Category] += e.Amount
		totalSpent += e.Amount
	}

	report := Report{
		Income:     income,
		Categories: make([]CategoryReport, 0, len(models.Categories)),
		TotalSpent: totalSpent,
		Balance:    income - totalSpent,
	}

	for _, cat := range models.Categories {
		allocated := income * Weights[cat]
		line := CategoryReport{
			Category:  cat,
			Allocated: allocated,
			Spent:     spent[cat],
			Remaining: allocated - spent[cat],
		}
		if allocated > 0 {
			line.PercentUsed = line.Spent / allocated * 100
		}
		if line.Spent > allocated {
			line.OverBudget = true
			line.Over = line.Spent - allocated
		}
		report.Categories = append(report.Categories, line)
	}

	if income > 0 {
		report.SavingsRatePercent = spent[models.CategorySavings] / income * 100
	}
	return report
}

// Line returns the report line for a category, or a zero line if the
// category is unknown.
func (r Report) Line(cat models.Category) CategoryReport {
	for _, line := range r.Categories {
		if line.Category == cat {
			return line
		}
	}
	return CategoryReport{Category: cat}
}
