// Package itinerary provides the day-keyed activity store and its reorder engine.
package itinerary

import "strings"

// Fallback values stored when an optional draft field is left blank.
const (
	DefaultDescription = "No description"
	DefaultTime        = "TBD"
	DefaultDuration    = "1 hour"
)

// Day is a fixed calendar slot in a trip.
type Day struct {
	ID        string
	Label     string
	DateLabel string
}

// Activity is a single planned event within a day.
type Activity struct {
	ID          string
	Title       string
	Description string
	Time        string
	Duration    string
	ImageURL    *string
}

// Draft holds user input for a new activity. The ID is assigned by the store.
type Draft struct {
	Title       string
	Description string
	Time        string
	Duration    string
	ImageURL    *string
}

// normalize trims every field and applies the display fallbacks.
// The title is trimmed but never defaulted.
func (d Draft) normalize() Draft {
	out := Draft{
		Title:       strings.TrimSpace(d.Title),
		Description: orDefault(d.Description, DefaultDescription),
		Time:        orDefault(d.Time, DefaultTime),
		Duration:    orDefault(d.Duration, DefaultDuration),
	}
	if d.ImageURL != nil {
		if u := strings.TrimSpace(*d.ImageURL); u != "" {
			out.ImageURL = &u
		}
	}
	return out
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

// clone returns a copy that shares no pointers with a.
func (a Activity) clone() Activity {
	if a.ImageURL != nil {
		u := *a.ImageURL
		a.ImageURL = &u
	}
	return a
}

func cloneActivities(in []Activity) []Activity {
	out := make([]Activity, len(in))
	for i := range in {
		out[i] = in[i].clone()
	}
	return out
}

// IDs returns the activity identifiers in order.
func IDs(activities []Activity) []string {
	ids := make([]string, len(activities))
	for i := range activities {
		ids[i] = activities[i].ID
	}
	return ids
}
