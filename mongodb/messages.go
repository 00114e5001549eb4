package mongodb

import (
	"context"
	"fmt"

	"spendsense/api/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func CreateMessage(ctx context.Context, message *models.Message) error {
	_, err := collection(MessageCollection).InsertOne(ctx, message)
	if err != nil {
		return fmt.Errorf("error creating message: %w", err)
	}
	return nil
}

// GetMessagesByConversationID returns the conversation's messages, oldest
// first. The filter includes user_id so one user can never page through
// another user's conversation.
func GetMessagesByConversationID(ctx context.Context, userID, conversationID string) ([]models.Message, error) {
	filter := bson.M{"conversation_id": conversationID, "user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := collection(MessageCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	for cursor.Next(ctx) {
		var message models.Message
		if err := cursor.Decode(&message); err != nil {
			return nil, fmt.Errorf("error decoding message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return messages, nil
}

func DeleteMessages(ctx context.Context, conversationID string) error {
	_, err := collection(MessageCollection).DeleteMany(ctx, bson.M{"conversation_id": conversationID})
	if err != nil {
		return fmt.Errorf("error deleting messages: %w", err)
	}
	return nil
}

func DeleteMessagesByUserID(ctx context.Context, userID string) error {
	_, err := collection(MessageCollection).DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("error deleting messages: %w", err)
	}
	return nil
}
