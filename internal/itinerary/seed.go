package itinerary

// DefaultTripName is the display name of the seed trip.
const DefaultTripName = "SoCal Road Trip"

// DefaultDays returns the day set of the seed trip.
func DefaultDays() []Day {
	return []Day{
		{ID: "sat-321", Label: "Sat", DateLabel: "3/21"},
		{ID: "sun-322", Label: "Sun", DateLabel: "3/22"},
		{ID: "mon-323", Label: "Mon", DateLabel: "3/23"},
		{ID: "tue-324", Label: "Tue", DateLabel: "3/24"},
	}
}

// DefaultActivities returns the seed activities keyed by day ID.
func DefaultActivities() map[string][]Activity {
	return map[string][]Activity{
		"sat-321": {
			{
				ID:          "1",
				Title:       "Big Sur",
				Description: "Get photo of bridge!",
				Time:        "9:00 AM",
				Duration:    "2 hours",
				ImageURL:    strPtr("https://upload.wikimedia.org/wikipedia/commons/thumb/1/10/Bixby_Creek_Bridge%2C_taken_by_HeyItsAlex%2C_March_2014.jpg/1280px-Bixby_Creek_Bridge%2C_taken_by_HeyItsAlex%2C_March_2014.jpg"),
			},
			{
				ID:          "2",
				Title:       "McWay Falls",
				Description: "Beautiful waterfall view",
				Time:        "11:30 AM",
				Duration:    "1 hour",
				ImageURL:    strPtr("https://upload.wikimedia.org/wikipedia/commons/thumb/b/b3/McWay_Falls_2013.jpg/1280px-McWay_Falls_2013.jpg"),
			},
			{
				ID:          "3",
				Title:       "Nepenthe Restaurant",
				Description: "Lunch with ocean views",
				Time:        "12:30 PM",
				Duration:    "1.5 hours",
			},
			{
				ID:          "4",
				Title:       "Pfeiffer Beach",
				Description: "Purple sand beach at sunset",
				Time:        "4:00 PM",
				Duration:    "2.5 hours",
				ImageURL:    strPtr("https://upload.wikimedia.org/wikipedia/commons/thumb/4/4e/Pfeiffer_Beach_Purple_Sand.jpg/1280px-Pfeiffer_Beach_Purple_Sand.jpg"),
			},
		},
		"sun-322": {
			{ID: "5", Title: "Point Lobos", Description: "Scenic coastal state reserve", Time: "9:30 AM", Duration: "2 hours"},
			{ID: "6", Title: "Carmel-by-the-Sea", Description: "Explore charming downtown", Time: "12:00 PM", Duration: "3 hours"},
		},
		"mon-323": {
			{ID: "7", Title: "17-Mile Drive", Description: "Iconic scenic coastal road", Time: "10:00 AM", Duration: "2 hours"},
		},
		"tue-324": {},
	}
}

func strPtr(s string) *string {
	return &s
}
