package models

type Account struct {
	UserID string        `json:"user_id"`
	Email  string        `json:"email"`
	Status AccountStatus `json:"status"`
}

type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "active"
	AccountStatusDeleted AccountStatus = "deleted"
)
