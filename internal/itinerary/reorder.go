package itinerary

import "github.com/rs/zerolog"

// ReorderEngine turns the final permutation of a drag gesture into a day replacement.
// It never edits activity fields and never touches other days.
type ReorderEngine struct {
	store  *Store
	logger zerolog.Logger
}

// NewReorderEngine creates a reorder engine backed by store.
func NewReorderEngine(store *Store, logger zerolog.Logger) *ReorderEngine {
	return &ReorderEngine{store: store, logger: logger}
}

// OnReorderComplete validates that orderedIDs is a permutation of the day's current
// activity identifiers and, if so, replaces the day in that order.
// Applying the same ordering twice is a no-op in effect.
func (e *ReorderEngine) OnReorderComplete(dayID string, orderedIDs []string) error {
	current, err := e.store.Activities(dayID)
	if err != nil {
		return err
	}

	if violation := checkPermutation(dayID, IDs(current), orderedIDs); violation != nil {
		e.logger.Warn().
			Str("day_id", dayID).
			Strs("missing", violation.Missing).
			Strs("unexpected", violation.Unexpected).
			Msg("rejected reorder payload")
		return violation
	}

	byID := make(map[string]Activity, len(current))
	for _, a := range current {
		byID[a.ID] = a
	}
	next := make([]Activity, len(orderedIDs))
	for i, id := range orderedIDs {
		next[i] = byID[id]
	}

	// ReplaceDay re-checks under the store lock, so a concurrent add between the
	// read above and this write surfaces as an InvariantViolation instead of a lost update.
	if err := e.store.ReplaceDay(dayID, next); err != nil {
		return err
	}

	e.logger.Debug().
		Str("day_id", dayID).
		Int("activity_count", len(next)).
		Msg("reorder applied")

	return nil
}
