package models

import (
	"errors"
	"strings"
	"time"
)

// Category is the fixed 50/30/20 bucket an expense belongs to.
type Category string

const (
	CategoryNeeds   Category = "Needs"
	CategoryWants   Category = "Wants"
	CategorySavings Category = "Savings"
)

// Categories lists the buckets in report order.
var Categories = []Category{CategoryNeeds, CategoryWants, CategorySavings}

func (c Category) Valid() bool {
	switch c {
	case CategoryNeeds, CategoryWants, CategorySavings:
		return true
	}
	return false
}

var (
	ErrEmptyName       = errors.New("empty expense name")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrInvalidCategory = errors.New("category must be Needs, Wants or Savings")
)

// Expense is one logged expense, scoped to a user. CreatedAt is assigned by
// the server on insert; listings sort on it descending.
type Expense struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Name      string    `bson:"name" json:"name"`
	Amount    float64   `bson:"amount" json:"amount"`
	Category  Category  `bson:"category" json:"category"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}
