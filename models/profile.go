package models

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

const maxBioLength = 160

var (
	ErrNegativeIncome      = errors.New("income must not be negative")
	ErrNegativeSavingsGoal = errors.New("savings goal must not be negative")
	ErrInvalidCurrency     = errors.New("unsupported currency")
)

var supportedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"INR": true,
}

// UserProfile is the per-identity profile document. One per user, keyed by
// the identity id; created at signup with income 0.
type UserProfile struct {
	UserID      string    `bson:"user_id" json:"user_id"`
	DisplayName string    `bson:"display_name" json:"display_name"`
	Income      float64   `bson:"income" json:"income"`
	Currency    string    `bson:"currency" json:"currency"`
	SavingsGoal float64   `bson:"savings_goal" json:"savings_goal"`
	Bio         string    `bson:"bio" json:"bio"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

func (p UserProfile) Validate() error {
	if p.Income < 0 {
		return ErrNegativeIncome
	}
	if p.SavingsGoal < 0 {
		return ErrNegativeSavingsGoal
	}
	if p.Currency != "" && !supportedCurrencies[p.Currency] {
		return ErrInvalidCurrency
	}
	if utf8.RuneCountInString(p.Bio) > maxBioLength {
		return fmt.Errorf("bio too long (max %d characters)", maxBioLength)
	}
	return nil
}
