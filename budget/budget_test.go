package budget

import (
	"math"
	"testing"

	"spendsense/api/models"
)

func expense(cat models.Category, amount float64) models.Expense {
	return models.Expense{Name: "x", Amount: amount, Category: cat}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeWorkedExample(t *testing.T) {
	expenses := []models.Expense{
		expense(models.CategoryNeeds, 800),
		expense(models.CategoryWants, 950),
		expense(models.CategorySavings, 100),
	}
	r := Compute(3000, expenses)

	needs := r.Line(models.CategoryNeeds)
	if !almostEqual(needs.Allocated, 1500) || !almostEqual(needs.Spent, 800) {
		t.Fatalf("needs: allocated=%v spent=%v", needs.Allocated, needs.Spent)
	}
	if needs.OverBudget {
		t.Fatal("needs should be under budget")
	}

	wants := r.Line(models.CategoryWants)
	if !almostEqual(wants.Allocated, 900) {
		t.Fatalf("wants allocated = %v, want 900", wants.Allocated)
	}
	if !wants.OverBudget || !almostEqual(wants.Over, 50) {
		t.Fatalf("wants over = %v (flag %v), want over by 50", wants.Over, wants.OverBudget)
	}

	savings := r.Line(models.CategorySavings)
	if !almostEqual(savings.Allocated, 600) || savings.OverBudget {
		t.Fatalf("savings: allocated=%v over=%v", savings.Allocated, savings.OverBudget)
	}

	if !almostEqual(r.TotalSpent, 1850) {
		t.Fatalf("total spent = %v, want 1850", r.TotalSpent)
	}
	if !almostEqual(r.Balance, 1150) {
		t.Fatalf("balance = %v, want 1150", r.Balance)
	}
}

func TestAllocationsSumToIncome(t *testing.T) {
	for _, income := range []float64{0, 1, 100, 2999.99, 3000, 123456.78} {
		r := Compute(income, nil)
		var sum float64
		for _, line := range r.Categories {
			sum += line.Allocated
		}
		if !almostEqual(sum, income) {
			t.Errorf("income %v: allocations sum to %v", income, sum)
		}
	}
}

func TestZeroIncome(t *testing.T) {
	r := Compute(0, []models.Expense{expense(models.CategoryNeeds, 50)})
	for _, line := range r.Categories {
		if line.Allocated != 0 {
			t.Errorf("%s allocated = %v, want 0", line.Category, line.Allocated)
		}
		if line.PercentUsed != 0 {
			t.Errorf("%s percent used = %v, want 0", line.Category, line.PercentUsed)
		}
	}
	if r.SavingsRatePercent != 0 {
		t.Errorf("savings rate = %v, want 0", r.SavingsRatePercent)
	}
	// Spending against a zero allocation is still over budget.
	needs := r.Line(models.CategoryNeeds)
	if !needs.OverBudget || !almostEqual(needs.Over, 50) {
		t.Errorf("needs over = %v (flag %v)", needs.Over, needs.OverBudget)
	}
}

func TestTotalsMatchCategorySums(t *testing.T) {
	expenses := []models.Expense{
		expense(models.CategoryNeeds, 12.5),
		expense(models.CategoryNeeds, 7.25),
		expense(models.CategoryWants, 99.99),
		expense(models.CategorySavings, 250),
		expense(models.CategorySavings, 0.01),
	}
	r := Compute(1000, expenses)

	var sum float64
	for _, line := range r.Categories {
		sum += line.Spent
	}
	if !almostEqual(r.TotalSpent, sum) {
		t.Fatalf("total spent %v != category sum %v", r.TotalSpent, sum)
	}
	if !almostEqual(r.Balance, 1000-sum) {
		t.Fatalf("balance %v != income - total spent", r.Balance)
	}
}

func TestOverNeverNegative(t *testing.T) {
	r := Compute(1000, []models.Expense{expense(models.CategoryWants, 100)})
	for _, line := range r.Categories {
		if line.Over < 0 {
			t.Errorf("%s over = %v", line.Category, line.Over)
		}
		if !line.OverBudget && line.Over != 0 {
			t.Errorf("%s under budget but over = %v", line.Category, line.Over)
		}
	}
}

func TestSavingsRate(t *testing.T) {
	r := Compute(2000, []models.Expense{expense(models.CategorySavings, 300)})
	if !almostEqual(r.SavingsRatePercent, 15) {
		t.Fatalf("savings rate = %v, want 15", r.SavingsRatePercent)
	}
}

func TestUnknownCategoryIgnored(t *testing.T) {
	r := Compute(1000, []models.Expense{{Name: "x", Amount: 40, Category: "Other"}})
	if r.TotalSpent != 0 {
		t.Fatalf("total spent = %v, want 0", r.TotalSpent)
	}
}
