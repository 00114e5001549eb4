package qdrant

import (
	"context"
	"fmt"
	"time"

	"spendsense/api/models"

	"github.com/qdrant/go-client/qdrant"
)

func userFilter(userID string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			{
				ConditionOneOf: &qdrant.Condition_Field{
					Field: &qdrant.FieldCondition{
						Key: "metadata.user_id",
						Match: &qdrant.Match{
							MatchValue: &qdrant.Match_Keyword{
								Keyword: userID,
							},
						},
					},
				},
			},
		},
	}
}

// UpsertExpense writes the expense's embedding plus payload, keyed by the
// expense id so updates overwrite in place.
func UpsertExpense(ctx context.Context, expense *models.Expense, vector []float32) error {
	if QdrantClient == nil {
		return fmt.Errorf("QdrantClient is not initialized")
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(expense.ID),
		Vectors: qdrant.NewVectors(vector...),
		Payload: qdrant.NewValueMap(map[string]any{
			"metadata": map[string]any{
				"user_id": expense.UserID,
			},
			"name":       expense.Name,
			"amount":     expense.Amount,
			"category":   string(expense.Category),
			"created_at": expense.CreatedAt.Format(time.RFC3339),
		}),
	}

	_, err := QdrantClient.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: ExpensesCollection,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert expense %s: %w", expense.ID, err)
	}
	return nil
}

// SearchExpenses returns the user's expenses most similar to the query
// vector, reconstructed from point payloads.
func SearchExpenses(ctx context.Context, userID string, vector []float32, limit uint64) ([]models.Expense, error) {
	if QdrantClient == nil {
		return nil, fmt.Errorf("QdrantClient is not initialized")
	}

	points, err := QdrantClient.Query(ctx, &qdrant.QueryPoints{
		CollectionName: ExpensesCollection,
		Query:          qdrant.NewQuery(vector...),
		Filter:         userFilter(userID),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search expenses for user_id %s: %w", userID, err)
	}

	expenses := make([]models.Expense, 0, len(points))
	for _, p := range points {
		payload := p.GetPayload()
		expense := models.Expense{
			UserID:   userID,
			Name:     payload["name"].GetStringValue(),
			Amount:   payload["amount"].GetDoubleValue(),
			Category: models.Category(payload["category"].GetStringValue()),
		}
		if id := p.GetId(); id != nil {
			expense.ID = id.GetUuid()
		}
		if ts, err := time.Parse(time.RFC3339, payload["created_at"].GetStringValue()); err == nil {
			expense.CreatedAt = ts
		}
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

// DeleteExpense removes one expense's vector.
func DeleteExpense(ctx context.Context, expenseID string) error {
	if QdrantClient == nil {
		return fmt.Errorf("QdrantClient is not initialized")
	}

	_, err := QdrantClient.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: ExpensesCollection,
		Points: qdrant.NewPointsSelector(
			qdrant.NewIDUUID(expenseID),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}
	return nil
}

// DeleteExpensesByUserID removes every vector belonging to the user.
func DeleteExpensesByUserID(userID string) error {
	if QdrantClient == nil {
		return fmt.Errorf("QdrantClient is not initialized")
	}

	waitBeforeReturning := false
	_, err := QdrantClient.Delete(context.Background(), &qdrant.DeletePoints{
		CollectionName: ExpensesCollection,
		Points:         qdrant.NewPointsSelectorFilter(userFilter(userID)),
		Wait:           &waitBeforeReturning,
	})
	if err != nil {
		return fmt.Errorf("failed to delete expenses for user_id %s: %w", userID, err)
	}
	return nil
}
