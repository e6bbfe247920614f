package models

// Itinerary is the caller's trip with every day in order.
type Itinerary struct {
	Name string         `json:"name"`
	Days []ItineraryDay `json:"days"`
}

// ItineraryDay is one day and its ordered activities.
type ItineraryDay struct {
	ID         string     `json:"id"`
	Label      string     `json:"label"`
	DateLabel  string     `json:"dateLabel"`
	Version    uint64     `json:"version"`
	Activities []Activity `json:"activities"`
}

// Activity is one planned event.
type Activity struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Time        string  `json:"time"`
	Duration    string  `json:"duration"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// CreateActivityRequest is the body of POST /v1/itinerary/days/{dayId}/activities.
type CreateActivityRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Time        string  `json:"time"`
	Duration    string  `json:"duration"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// ReorderRequest is the body of PUT /v1/itinerary/days/{dayId}/order.
type ReorderRequest struct {
	IDs []string `json:"ids"`
}
