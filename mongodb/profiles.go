package mongodb

import (
	"context"
	"fmt"
	"time"

	"spendsense/api/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func CreateProfile(ctx context.Context, profile *models.UserProfile) error {
	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	_, err := collection(ProfileCollection).InsertOne(ctx, profile)
	if err != nil {
		return fmt.Errorf("error creating profile: %w", err)
	}
	return nil
}

func GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	filter := bson.M{"user_id": userID}

	var profile models.UserProfile
	err := collection(ProfileCollection).FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found, but not an error
		}
		return nil, err
	}

	return &profile, nil
}

func ReplaceProfile(ctx context.Context, userID string, profile *models.UserProfile) error {
	profile.UpdatedAt = time.Now()

	filter := bson.M{"user_id": userID}
	_, err := collection(ProfileCollection).ReplaceOne(ctx, filter, profile)
	if err != nil {
		return fmt.Errorf("error replacing profile: %w", err)
	}
	return nil
}

func DeleteProfile(ctx context.Context, userID string) error {
	_, err := collection(ProfileCollection).DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("error deleting profile: %w", err)
	}
	return nil
}
