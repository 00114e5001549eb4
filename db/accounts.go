package db

import (
	"database/sql"
	"fmt"

	"spendsense/api/models"
)

// EnsureAccount inserts the account row on first sight of an identity and
// is a no-op afterwards.
func EnsureAccount(userID, email string) error {
	query := `
		INSERT INTO accounts (user_id, email, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := DB.Exec(query, userID, email, models.AccountStatusActive)
	if err != nil {
		return fmt.Errorf("error ensuring account for user %s: %w", userID, err)
	}
	return nil
}

func GetAccount(userID string) (*models.Account, error) {
	query := `
		SELECT user_id, email, status
		FROM accounts
		WHERE user_id = $1
	`
	account := &models.Account{}
	err := DB.QueryRow(query, userID).Scan(&account.UserID, &account.Email, &account.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting account %s: %w", userID, err)
	}
	return account, nil
}

func UpdateAccountStatus(userID string, status models.AccountStatus) error {
	query := `
		UPDATE accounts
		SET status = $1
		WHERE user_id = $2
	`
	_, err := DB.Exec(query, status, userID)
	if err != nil {
		return fmt.Errorf("error updating status for user %s: %w", userID, err)
	}
	return nil
}

// DeleteAccountData removes everything the account owns in Postgres inside
// one transaction. The accounts row itself survives with status=deleted so
// a returning identity is recognizable.
func DeleteAccountData(userID string) (err error) {
	tx, err := DB.Begin()
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM conversations WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if _, err = tx.Exec(`UPDATE accounts SET status = $1 WHERE user_id = $2`, models.AccountStatusDeleted, userID); err != nil {
		return err
	}
	return nil
}
