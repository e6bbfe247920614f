package itinerary_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadtravel/nomad/internal/itinerary"
)

func TestReorderEngine_AppliesPermutation(t *testing.T) {
	store := newSeededStore(t)
	engine := itinerary.NewReorderEngine(store, zerolog.Nop())

	require.NoError(t, engine.OnReorderComplete("sat-321", []string{"4", "3", "2", "1"}))

	after, err := store.Activities("sat-321")
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "3", "2", "1"}, itinerary.IDs(after))
	assert.Equal(t, "Pfeiffer Beach", after[0].Title)
	assert.Equal(t, "Purple sand beach at sunset", after[0].Description)
}

func TestReorderEngine_Idempotent(t *testing.T) {
	store := newSeededStore(t)
	engine := itinerary.NewReorderEngine(store, zerolog.Nop())
	order := []string{"2", "1", "4", "3"}

	require.NoError(t, engine.OnReorderComplete("sat-321", order))
	first, err := store.Activities("sat-321")
	require.NoError(t, err)

	require.NoError(t, engine.OnReorderComplete("sat-321", order))
	second, err := store.Activities("sat-321")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReorderEngine_RejectsNonPermutation(t *testing.T) {
	store := newSeededStore(t)
	engine := itinerary.NewReorderEngine(store, zerolog.Nop())
	before := store.Snapshot()

	err := engine.OnReorderComplete("sat-321", []string{"1", "2", "5"})

	var violation *itinerary.InvariantViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, []string{"3", "4"}, violation.Missing)
	assert.Equal(t, []string{"5"}, violation.Unexpected)
	assert.Equal(t, before, store.Snapshot())
}

func TestReorderEngine_DoesNotTouchOtherDays(t *testing.T) {
	store := newSeededStore(t)
	engine := itinerary.NewReorderEngine(store, zerolog.Nop())

	sunBefore, err := store.Activities("sun-322")
	require.NoError(t, err)

	require.NoError(t, engine.OnReorderComplete("sat-321", []string{"3", "4", "1", "2"}))

	sunAfter, err := store.Activities("sun-322")
	require.NoError(t, err)
	assert.Equal(t, sunBefore, sunAfter)
}

func TestReorderEngine_EmptyDay(t *testing.T) {
	store := newSeededStore(t)
	engine := itinerary.NewReorderEngine(store, zerolog.Nop())

	assert.NoError(t, engine.OnReorderComplete("tue-324", []string{}))
	assert.ErrorIs(t, engine.OnReorderComplete("tue-324", []string{"1"}), itinerary.ErrInvariantViolation)
}

func TestReorderEngine_UnknownDay(t *testing.T) {
	store := newSeededStore(t)
	engine := itinerary.NewReorderEngine(store, zerolog.Nop())

	assert.ErrorIs(t, engine.OnReorderComplete("wed-325", nil), itinerary.ErrNotFound)
}

func TestItinerary_AddThenReverse(t *testing.T) {
	store := itinerary.NewStore(itinerary.StoreConfig{Logger: zerolog.Nop()})
	require.NoError(t, store.Initialize(itinerary.DefaultDays(), map[string][]itinerary.Activity{
		"sat-321": {
			{ID: "1", Title: "Big Sur", Description: "Get photo of bridge!", Time: "9:00 AM", Duration: "2 hours"},
			{ID: "2", Title: "McWay Falls", Description: "Beautiful waterfall view", Time: "11:30 AM", Duration: "1 hour"},
		},
	}))
	engine := itinerary.NewReorderEngine(store, zerolog.Nop())

	added, err := store.AddActivity("sat-321", itinerary.Draft{Title: "Pfeiffer Beach"})
	require.NoError(t, err)

	acts, err := store.Activities("sat-321")
	require.NoError(t, err)
	require.Len(t, acts, 3)
	last := acts[2]
	assert.Equal(t, added.ID, last.ID)
	assert.Equal(t, itinerary.DefaultDescription, last.Description)
	assert.Equal(t, itinerary.DefaultTime, last.Time)
	assert.Equal(t, itinerary.DefaultDuration, last.Duration)

	reversed := []string{added.ID, "2", "1"}
	require.NoError(t, engine.OnReorderComplete("sat-321", reversed))

	acts, err = store.Activities("sat-321")
	require.NoError(t, err)
	assert.Equal(t, reversed, itinerary.IDs(acts))
}
