package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const personalityTimeout = 10 * time.Second

const personalitySystemMessage = "You are a friendly, supportive trading companion bot. " +
	"Celebrate wins, offer constructive empathy for losses, and encourage plan-following for pending trades. " +
	"Be concise and warm, use at most one emoji, and never give financial advice. " +
	"Focus on execution and psychology."

// PersonalityReply asks the LLM for a more natural acknowledgement of a
// logged trade. Errors are expected to be swallowed by the caller in favor of
// a static fallback.
func (a *Analyzer) PersonalityReply(ctx context.Context, summary, userMessage string) (string, error) {
	if !a.Available() {
		return "", fmt.Errorf("analyzer not available")
	}

	ctx, cancel := context.WithTimeout(ctx, personalityTimeout)
	defer cancel()

	prompt := fmt.Sprintf(`User message: %q
Logged trade: %s

Write a short acknowledgement (max 2 sentences) of this journal entry.`, userMessage, summary)

	messages := []Message{
		{Role: "system", Content: personalitySystemMessage},
		{Role: "user", Content: prompt},
	}

	reply, err := a.client.ChatCompletion(ctx, messages)
	if err != nil {
		return "", err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("empty personality reply")
	}
	return reply, nil
}
