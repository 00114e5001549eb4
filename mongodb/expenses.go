package mongodb

import (
	"context"
	"fmt"
	"time"

	"spendsense/api/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CreateExpense inserts the expense with a server-assigned id and
// timestamp. The caller's ID/CreatedAt fields are overwritten.
func CreateExpense(ctx context.Context, expense *models.Expense) error {
	expense.ID = uuid.NewString()
	expense.CreatedAt = time.Now()

	_, err := collection(ExpenseCollection).InsertOne(ctx, expense)
	if err != nil {
		return fmt.Errorf("error creating expense: %w", err)
	}
	return nil
}

// UpdateExpense rewrites the mutable fields of one expense, scoped to the
// owning user so an id from another user's sub-collection cannot match.
// Returns mongo.ErrNoDocuments when nothing matched.
func UpdateExpense(ctx context.Context, userID, expenseID string, expense *models.Expense) error {
	filter := bson.M{"_id": expenseID, "user_id": userID}
	update := bson.M{"$set": bson.M{
		"name":     expense.Name,
		"amount":   expense.Amount,
		"category": expense.Category,
	}}

	res, err := collection(ExpenseCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating expense: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteExpense removes one expense scoped to its owner. Returns
// mongo.ErrNoDocuments when nothing matched.
func DeleteExpense(ctx context.Context, userID, expenseID string) error {
	filter := bson.M{"_id": expenseID, "user_id": userID}

	res, err := collection(ExpenseCollection).DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("error deleting expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListExpenses returns the user's expenses ordered newest first.
func ListExpenses(ctx context.Context, userID string) ([]models.Expense, error) {
	filter := bson.M{"user_id": userID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := collection(ExpenseCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching expenses: %w", err)
	}
	defer cursor.Close(ctx)

	var expenses []models.Expense
	for cursor.Next(ctx) {
		var expense models.Expense
		if err := cursor.Decode(&expense); err != nil {
			return nil, fmt.Errorf("error decoding expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return expenses, nil
}

func DeleteExpensesByUserID(ctx context.Context, userID string) error {
	_, err := collection(ExpenseCollection).DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("error deleting expenses: %w", err)
	}
	return nil
}
