package llm

import (
	"context"
	"fmt"
	"regexp"
)

var titleCleaner = regexp.MustCompile(`[^a-zA-Z0-9 ':,;-]+`)

// GenerateChatTitle asks the runtime for a short conversation title based
// on the user's opening message.
func GenerateChatTitle(ctx context.Context, userMessage string) (string, error) {
	messages := []ChatMessage{
		{Role: "system", Content: "You are a helpful assistant that generates short, descriptive titles for financial advice chat conversations. Keep it under 5 words using only alphanumeric characters."},
		{Role: "user", Content: fmt.Sprintf("Create a short title for this chat: %q", userMessage)},
	}

	title, err := chatCompletion(ctx, messages, 20, 0.3)
	if err != nil {
		return "", err
	}
	if title == "" {
		return "New Chat", nil
	}
	return titleCleaner.ReplaceAllString(title, ""), nil
}
