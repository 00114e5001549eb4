package mongodb

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestIsPermissionDenied(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"unauthorized command", mongo.CommandError{Code: 13, Message: "not authorized"}, true},
		{"atlas unauthorized", mongo.CommandError{Code: 8000, Message: "user is not allowed"}, true},
		{"auth failed", mongo.CommandError{Code: 18, Message: "authentication failed"}, true},
		{"other command error", mongo.CommandError{Code: 11000, Message: "duplicate key"}, false},
		{"wrapped unauthorized", fmt.Errorf("insert: %w", mongo.CommandError{Code: 13}), true},
		{"write unauthorized", mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 13}}}, true},
		{"write other", mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}, false},
	}
	for _, tc := range cases {
		if got := IsPermissionDenied(tc.err); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDocumentPaths(t *testing.T) {
	if got := ProfilePath("u1"); got != "users/u1" {
		t.Fatalf("got %q", got)
	}
	if got := ExpensePath("u1", "e1"); got != "users/u1/expenses/e1" {
		t.Fatalf("got %q", got)
	}
}
