package googleplaces

// searchRequest is the body of places:searchText.
type searchRequest struct {
	TextQuery string `json:"textQuery"`
}

type searchResponse struct {
	Places []place `json:"places"`
}

type place struct {
	ID               string        `json:"id"`
	DisplayName      *localized    `json:"displayName,omitempty"`
	FormattedAddress *string       `json:"formattedAddress,omitempty"`
	Location         *latLng       `json:"location,omitempty"`
	Rating           *float64      `json:"rating,omitempty"`
	UserRatingCount  *int          `json:"userRatingCount,omitempty"`
	Reviews          []placeReview `json:"reviews,omitempty"`
}

type localized struct {
	Text string `json:"text"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type placeReview struct {
	Rating            *float64           `json:"rating,omitempty"`
	Text              *localized         `json:"text,omitempty"`
	AuthorAttribution *authorAttribution `json:"authorAttribution,omitempty"`
}

type authorAttribution struct {
	DisplayName string `json:"displayName"`
}

// errorResponse is the Google API error envelope.
type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
