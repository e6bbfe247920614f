package serpapi

// searchResponse is the google_maps engine response. A query that resolves to a
// single place returns PlaceResults instead of LocalResults.
type searchResponse struct {
	LocalResults []localResult `json:"local_results"`
	PlaceResults *localResult  `json:"place_results,omitempty"`
	Error        string        `json:"error,omitempty"`
}

type localResult struct {
	PlaceID        string          `json:"place_id"`
	Title          string          `json:"title"`
	Address        *string         `json:"address,omitempty"`
	GPSCoordinates *gpsCoordinates `json:"gps_coordinates,omitempty"`
	Rating         *float64        `json:"rating,omitempty"`
	Reviews        *int            `json:"reviews,omitempty"`
}

type gpsCoordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// reviewsResponse is the google_maps_reviews engine response.
type reviewsResponse struct {
	PlaceInfo *placeInfo `json:"place_info,omitempty"`
	Reviews   []review   `json:"reviews"`
	Error     string     `json:"error,omitempty"`
}

type placeInfo struct {
	Title   string   `json:"title"`
	Address *string  `json:"address,omitempty"`
	Rating  *float64 `json:"rating,omitempty"`
	Reviews *int     `json:"reviews,omitempty"`
}

type review struct {
	User    *reviewUser `json:"user,omitempty"`
	Rating  *float64    `json:"rating,omitempty"`
	Snippet string      `json:"snippet"`
}

type reviewUser struct {
	Name string `json:"name"`
}

// errorResponse is the SerpApi error envelope.
type errorResponse struct {
	Error string `json:"error"`
}
