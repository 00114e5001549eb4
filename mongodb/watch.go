package mongodb

import (
	"context"

	"spendsense/api/logger"
	"spendsense/api/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// ExpenseEvent is one change pushed by the store's live subscription.
// Expense is populated for insert/update (update via full-document lookup,
// so the event carries the post-image: last write wins per key).
type ExpenseEvent struct {
	Type      string         `json:"type"` // "insert", "update", "replace", "delete"
	ExpenseID string         `json:"expense_id"`
	Expense   models.Expense `json:"expense,omitempty"`
}

// Subscription is a live expense feed with a cancellation handle. Callers
// must Cancel on teardown or identity change; the event channel closes once
// the underlying stream ends, so a cancelled subscription can never deliver
// into a newer session.
type Subscription struct {
	events chan ExpenseEvent
	cancel context.CancelFunc
}

func (s *Subscription) Events() <-chan ExpenseEvent {
	return s.events
}

func (s *Subscription) Cancel() {
	s.cancel()
}

// WatchExpenses opens a change stream over the user's expense
// sub-collection and pumps events until cancelled.
func WatchExpenses(ctx context.Context, userID string) (*Subscription, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	pipeline := bson.A{
		bson.M{"$match": bson.M{
			"$or": bson.A{
				bson.M{"fullDocument.user_id": userID},
				// Delete events carry no full document; match every delete
				// and filter by the ids this stream has seen would race, so
				// deletes are forwarded and the client drops unknown ids.
				bson.M{"operationType": "delete"},
			},
		}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := collection(ExpenseCollection).Watch(streamCtx, pipeline, opts)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &Subscription{
		events: make(chan ExpenseEvent, 32),
		cancel: cancel,
	}

	go func() {
		defer close(sub.events)
		defer stream.Close(context.Background())

		for stream.Next(streamCtx) {
			var change struct {
				OperationType string         `bson:"operationType"`
				FullDocument  models.Expense `bson:"fullDocument"`
				DocumentKey   struct {
					ID string `bson:"_id"`
				} `bson:"documentKey"`
			}
			if err := stream.Decode(&change); err != nil {
				logger.Get().Error("failed to decode expense change",
					zap.String("user_id", userID),
					zap.Error(err))
				continue
			}

			ev := ExpenseEvent{
				Type:      change.OperationType,
				ExpenseID: change.DocumentKey.ID,
				Expense:   change.FullDocument,
			}
			select {
			case sub.events <- ev:
			case <-streamCtx.Done():
				return
			}
		}

		if err := stream.Err(); err != nil && streamCtx.Err() == nil {
			logger.Get().Error("expense change stream ended",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}()

	return sub, nil
}
