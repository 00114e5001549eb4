package models

import (
	"strings"
	"testing"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{Name: "groceries", Amount: 42.50, Category: CategoryNeeds}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		e    Expense
		want error
	}{
		{Expense{Name: "", Amount: 1, Category: CategoryNeeds}, ErrEmptyName},
		{Expense{Name: "   ", Amount: 1, Category: CategoryNeeds}, ErrEmptyName},
		{Expense{Name: "a", Amount: 0, Category: CategoryNeeds}, ErrInvalidAmount},
		{Expense{Name: "a", Amount: -5, Category: CategoryNeeds}, ErrInvalidAmount},
		{Expense{Name: "a", Amount: 1, Category: "Misc"}, ErrInvalidCategory},
		{Expense{Name: "a", Amount: 1, Category: "needs"}, ErrInvalidCategory}, // case sensitive
	}
	for i, tc := range cases {
		if err := tc.e.Validate(); err != tc.want {
			t.Errorf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestProfileValidate(t *testing.T) {
	good := UserProfile{DisplayName: "Ada", Income: 3000, Currency: "EUR", SavingsGoal: 500}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	if err := (UserProfile{Income: -1}).Validate(); err != ErrNegativeIncome {
		t.Fatalf("got %v, want ErrNegativeIncome", err)
	}
	if err := (UserProfile{SavingsGoal: -1}).Validate(); err != ErrNegativeSavingsGoal {
		t.Fatalf("got %v, want ErrNegativeSavingsGoal", err)
	}
	if err := (UserProfile{Currency: "JPY"}).Validate(); err != ErrInvalidCurrency {
		t.Fatalf("got %v, want ErrInvalidCurrency", err)
	}
	// Empty currency is fine; it means "not set yet".
	if err := (UserProfile{}).Validate(); err != nil {
		t.Fatalf("expected ok for zero profile, got %v", err)
	}

	long := UserProfile{Bio: strings.Repeat("x", 161)}
	if err := long.Validate(); err == nil {
		t.Fatal("expected error for 161-char bio")
	}
	edge := UserProfile{Bio: strings.Repeat("x", 160)}
	if err := edge.Validate(); err != nil {
		t.Fatalf("expected ok for 160-char bio, got %v", err)
	}
}

func TestCategoryValid(t *testing.T) {
	for _, cat := range Categories {
		if !cat.Valid() {
			t.Errorf("%s should be valid", cat)
		}
	}
	if Category("Other").Valid() {
		t.Error("Other should not be valid")
	}
}
