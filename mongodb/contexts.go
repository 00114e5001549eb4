package mongodb

import (
	"context"
	"fmt"

	"spendsense/api/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func CreateConversationContext(ctx context.Context, item *models.Context) error {
	_, err := collection(ContextCollection).InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("error creating conversation context: %w", err)
	}
	return nil
}

func GetConversationContext(ctx context.Context, conversationID string) (*models.Context, error) {
	filter := bson.M{"conversation_id": conversationID}

	var conversationContext models.Context
	err := collection(ContextCollection).FindOne(ctx, filter).Decode(&conversationContext)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &conversationContext, nil
}

// Contexts are immutable snapshots; they are only ever created and deleted.
func DeleteConversationContext(ctx context.Context, conversationID string) error {
	_, err := collection(ContextCollection).DeleteMany(ctx, bson.M{"conversation_id": conversationID})
	if err != nil {
		return fmt.Errorf("error deleting conversation context: %w", err)
	}
	return nil
}

func DeleteContextsByUserID(ctx context.Context, userID string) error {
	_, err := collection(ContextCollection).DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("error deleting conversation contexts: %w", err)
	}
	return nil
}
