package db

import (
	"database/sql"

	"spendsense/api/models"

	"github.com/google/uuid"
)

func CreateConversation(userID, title string) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (user_id, title)
		VALUES ($1, $2)
		RETURNING id, user_id, created_at, title
	`
	item := &models.Conversation{}

	err := DB.QueryRow(query, userID, title).Scan(
		&item.ID,
		&item.UserID,
		&item.CreatedAt,
		&item.Title,
	)
	if err != nil {
		return nil, err
	}

	return item, nil
}

// GetConversationByID returns nil, nil when no row matches; callers use the
// nil result for ownership 404s without leaking which ids exist.
func GetConversationByID(id uuid.UUID) (*models.Conversation, error) {
	query := `
		SELECT id, user_id, created_at, title
		FROM conversations
		WHERE id = $1
	`
	item := &models.Conversation{}
	err := DB.QueryRow(query, id).Scan(
		&item.ID,
		&item.UserID,
		&item.CreatedAt,
		&item.Title,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return item, nil
}

func DeleteConversation(id string) error {
	query := `
		DELETE FROM conversations
		WHERE id = $1
	`
	_, err := DB.Exec(query, id)
	return err
}

func GetConversationsByUserID(userID string) ([]*models.Conversation, error) {
	query := `
		SELECT id, user_id, created_at, title
		FROM conversations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	items := []*models.Conversation{}

	rows, err := DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := &models.Conversation{}
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.CreatedAt,
			&item.Title,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
