package itinerary

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxIDAttempts bounds how often a colliding generated ID is retried.
const maxIDAttempts = 3

// StoreConfig holds configuration for the activity store.
type StoreConfig struct {
	// Logger for store mutations.
	Logger zerolog.Logger

	// NewID generates activity identifiers (optional, defaults to "act_" + UUID).
	NewID func() string
}

// Store is the exclusive owner of a trip's day-keyed activity sequences.
// Readers always receive copies; all writes go through AddActivity and ReplaceDay.
type Store struct {
	logger zerolog.Logger
	newID  func() string

	mu         sync.RWMutex
	days       []Day
	activities map[string][]Activity
	versions   map[string]uint64
}

// NewStore creates an empty store. Call Initialize before use.
func NewStore(cfg StoreConfig) *Store {
	newID := cfg.NewID
	if newID == nil {
		newID = func() string { return "act_" + uuid.NewString() }
	}

	return &Store{
		logger:     cfg.Logger,
		newID:      newID,
		activities: make(map[string][]Activity),
		versions:   make(map[string]uint64),
	}
}

// Initialize establishes the day set and the initial activities.
// Every day receives an entry, empty when the seed has none for it.
// Seed entries for days outside the day set are rejected.
func (s *Store) Initialize(days []Day, seed map[string][]Activity) error {
	index := make(map[string]struct{}, len(days))
	for _, d := range days {
		if d.ID == "" {
			return &ValidationError{Field: "day.id", Message: "is required"}
		}
		if _, dup := index[d.ID]; dup {
			return &ValidationError{Field: "day.id", Message: fmt.Sprintf("%q is duplicated", d.ID)}
		}
		index[d.ID] = struct{}{}
	}

	activities := make(map[string][]Activity, len(days))
	for _, d := range days {
		activities[d.ID] = []Activity{}
	}
	for dayID, seq := range seed {
		if _, ok := index[dayID]; !ok {
			return &NotFoundError{DayID: dayID}
		}
		seen := make(map[string]struct{}, len(seq))
		for _, a := range seq {
			if a.ID == "" {
				return &ValidationError{Field: "activity.id", Message: "is required"}
			}
			if _, dup := seen[a.ID]; dup {
				return &ValidationError{Field: "activity.id", Message: fmt.Sprintf("%q is duplicated in day %q", a.ID, dayID)}
			}
			seen[a.ID] = struct{}{}
		}
		activities[dayID] = cloneActivities(seq)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.days = append([]Day(nil), days...)
	s.activities = activities
	s.versions = make(map[string]uint64, len(days))

	s.logger.Debug().
		Int("day_count", len(days)).
		Msg("itinerary initialized")

	return nil
}

// AddActivity appends a new activity to the end of the given day.
// A blank title is rejected; blank optional fields receive display fallbacks.
func (s *Store) AddActivity(dayID string, draft Draft) (Activity, error) {
	d := draft.normalize()
	if d.Title == "" {
		return Activity{}, &ValidationError{Field: "title", Message: "is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.activities[dayID]
	if !ok {
		return Activity{}, &NotFoundError{DayID: dayID}
	}

	id, err := s.uniqueID(current)
	if err != nil {
		return Activity{}, err
	}

	activity := Activity{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Time:        d.Time,
		Duration:    d.Duration,
		ImageURL:    d.ImageURL,
	}

	next := make([]Activity, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, activity)
	s.activities[dayID] = next
	s.versions[dayID]++

	s.logger.Debug().
		Str("day_id", dayID).
		Str("activity_id", id).
		Uint64("version", s.versions[dayID]).
		Msg("activity added")

	return activity.clone(), nil
}

// ReplaceDay atomically replaces a day's sequence with seq.
// The replacement must carry exactly the identifiers currently stored for the day.
func (s *Store) ReplaceDay(dayID string, seq []Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.activities[dayID]
	if !ok {
		return &NotFoundError{DayID: dayID}
	}

	if violation := checkPermutation(dayID, IDs(current), IDs(seq)); violation != nil {
		return violation
	}

	s.activities[dayID] = cloneActivities(seq)
	s.versions[dayID]++

	s.logger.Debug().
		Str("day_id", dayID).
		Int("activity_count", len(seq)).
		Uint64("version", s.versions[dayID]).
		Msg("day replaced")

	return nil
}

// Days returns the configured day set in order.
func (s *Store) Days() []Day {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Day(nil), s.days...)
}

// Activities returns a copy of the ordered activities for a day.
func (s *Store) Activities(dayID string) ([]Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq, ok := s.activities[dayID]
	if !ok {
		return nil, &NotFoundError{DayID: dayID}
	}
	return cloneActivities(seq), nil
}

// Version returns the mutation counter for a day. It starts at zero after Initialize.
func (s *Store) Version(dayID string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.activities[dayID]; !ok {
		return 0, &NotFoundError{DayID: dayID}
	}
	return s.versions[dayID], nil
}

// DaySnapshot is a point-in-time copy of one day.
type DaySnapshot struct {
	Day        Day
	Activities []Activity
	Version    uint64
}

// Snapshot returns a deep copy of every day in day-set order.
func (s *Store) Snapshot() []DaySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]DaySnapshot, 0, len(s.days))
	for _, d := range s.days {
		out = append(out, DaySnapshot{
			Day:        d,
			Activities: cloneActivities(s.activities[d.ID]),
			Version:    s.versions[d.ID],
		})
	}
	return out
}

// uniqueID returns a generated ID not already used in the day. Caller holds the lock.
func (s *Store) uniqueID(current []Activity) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		if id == "" {
			continue
		}
		taken := false
		for i := range current {
			if current[i].ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("generating activity id: no unique id after %d attempts", maxIDAttempts)
}

// checkPermutation compares two identifier multisets.
func checkPermutation(dayID string, current, proposed []string) *InvariantViolation {
	counts := make(map[string]int, len(current))
	for _, id := range current {
		counts[id]++
	}
	var unexpected []string
	for _, id := range proposed {
		if counts[id] == 0 {
			unexpected = append(unexpected, id)
			continue
		}
		counts[id]--
	}
	var missing []string
	for _, id := range current {
		if counts[id] > 0 {
			missing = append(missing, id)
			counts[id]--
		}
	}

	if len(missing) == 0 && len(unexpected) == 0 {
		return nil
	}
	return &InvariantViolation{DayID: dayID, Missing: missing, Unexpected: unexpected}
}
