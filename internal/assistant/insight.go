package assistant

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/places"
)

// PlaceInsight is a place's details with the summary of its reviews.
type PlaceInsight struct {
	Details *places.Details `json:"details"`
	Summary ReviewSummary   `json:"summary"`
}

// PrepareReviews takes the first MaxReviews reviews and keeps those with text.
func PrepareReviews(reviews []places.Review) []ReviewInput {
	if len(reviews) > MaxReviews {
		reviews = reviews[:MaxReviews]
	}

	out := make([]ReviewInput, 0, len(reviews))
	for _, r := range reviews {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		out = append(out, ReviewInput{Author: r.Author, Rating: r.Rating, Text: r.Text})
	}
	return out
}

// NoReviewsSummary is the summary used when there is nothing to summarize.
func NoReviewsSummary() ReviewSummary {
	return ReviewSummary{WhatPeopleSay: []string{NoReviewsMessage}}.Clamp()
}

// Insights builds PlaceInsight values from details and a Summarizer.
type Insights struct {
	summarizer Summarizer
	logger     zerolog.Logger
}

// NewInsights creates an Insights.
func NewInsights(summarizer Summarizer, logger zerolog.Logger) *Insights {
	return &Insights{summarizer: summarizer, logger: logger}
}

// Build summarizes the reviews of details. Without usable reviews the summarizer
// is not called and NoReviewsSummary is used.
func (i *Insights) Build(ctx context.Context, details *places.Details) (*PlaceInsight, error) {
	reviews := PrepareReviews(details.Reviews)
	if len(reviews) == 0 {
		i.logger.Debug().
			Str("place_id", details.ID).
			Msg("no reviews to summarize")
		return &PlaceInsight{Details: details, Summary: NoReviewsSummary()}, nil
	}

	name := details.Name
	if name == "" || name == places.UnnamedPlace {
		name = "Place"
	}

	summary, err := i.summarizer.SummarizeReviews(ctx, name, reviews)
	if err != nil {
		return nil, err
	}

	return &PlaceInsight{Details: details, Summary: summary.Clamp()}, nil
}
