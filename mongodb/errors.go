package mongodb

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Server error codes MongoDB uses for authorization failures.
const (
	codeUnauthorized           = 13
	codeAtlasUnauthorized      = 8000
	codeAuthenticationFailed   = 18
	codeReauthenticationNeeded = 391
)

// IsPermissionDenied reports whether err is an authorization rejection from
// the store, as opposed to a network or shape problem. Mutators use this to
// decide between a typed permission error and a plain 500.
func IsPermissionDenied(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case codeUnauthorized, codeAtlasUnauthorized, codeAuthenticationFailed, codeReauthenticationNeeded:
			return true
		}
	}
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == codeUnauthorized || we.Code == codeAtlasUnauthorized {
				return true
			}
		}
	}
	return false
}

// ProfilePath is the document path for a user's profile, in the
// users/{uid} notation permission errors report.
func ProfilePath(userID string) string {
	return fmt.Sprintf("users/%s", userID)
}

// ExpensePath is the document path for one expense in a user's
// sub-collection.
func ExpensePath(userID, expenseID string) string {
	return fmt.Sprintf("users/%s/expenses/%s", userID, expenseID)
}
