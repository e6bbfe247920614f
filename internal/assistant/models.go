// Package assistant covers the AI-backed features: review summaries for place
// details and the travel chat.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Summary list limits applied to every summarizer answer.
const (
	MaxWhatPeopleSay = 3
	MaxListItems     = 6
)

// MaxReviews is how many of a place's reviews are considered for summarizing.
const MaxReviews = 8

// NoReviewsMessage is the summary shown for a place without usable reviews.
const NoReviewsMessage = "No reviews returned by API for this place."

// ErrInvalidMessages is returned for an empty or malformed chat history.
var ErrInvalidMessages = errors.New("invalid chat messages")

// Role is the author of a chat message.
type Role string

// Chat roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ReviewInput is a review as sent to the summarizer.
type ReviewInput struct {
	Author *string  `json:"author,omitempty"`
	Rating *float64 `json:"rating,omitempty"`
	Text   string   `json:"text"`
}

// ReviewSummary is the summarizer's digest of a place's reviews.
type ReviewSummary struct {
	WhatPeopleSay []string `json:"whatPeopleSay"`
	Pros          []string `json:"pros"`
	Cons          []string `json:"cons"`
	BestFor       []string `json:"bestFor"`
}

// Clamp truncates every list to its limit and replaces nil lists with empty ones.
func (s ReviewSummary) Clamp() ReviewSummary {
	return ReviewSummary{
		WhatPeopleSay: clampList(s.WhatPeopleSay, MaxWhatPeopleSay),
		Pros:          clampList(s.Pros, MaxListItems),
		Cons:          clampList(s.Cons, MaxListItems),
		BestFor:       clampList(s.BestFor, MaxListItems),
	}
}

func clampList(items []string, limit int) []string {
	if len(items) > limit {
		items = items[:limit]
	}
	return append([]string{}, items...)
}

// Summarizer condenses reviews of a place.
type Summarizer interface {
	SummarizeReviews(ctx context.Context, placeName string, reviews []ReviewInput) (*ReviewSummary, error)
}

// Chatter answers a chat history with an optional JSON-able context.
type Chatter interface {
	Chat(ctx context.Context, messages []Message, chatContext map[string]any) (string, error)
}

// ValidateMessages checks that history is non-empty and every message has a known
// role and non-blank content.
func ValidateMessages(messages []Message) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: at least one message is required", ErrInvalidMessages)
	}
	for i, m := range messages {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("%w: message %d has unknown role %q", ErrInvalidMessages, i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("%w: message %d is empty", ErrInvalidMessages, i)
		}
	}
	return nil
}
