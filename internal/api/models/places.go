package models

// SearchPlacesRequest is the body of POST /v1/places:search.
type SearchPlacesRequest struct {
	Query string `json:"query"`
}

// SearchPlacesResponse lists search results in provider order.
type SearchPlacesResponse struct {
	Results []Place `json:"results"`
}

// Place is a search result. Lat and Lng are both present only for routable places.
type Place struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         *string  `json:"address,omitempty"`
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	UserRatingCount *int     `json:"userRatingCount,omitempty"`
}

// PlaceDetail is a place with its reviews and their summary.
type PlaceDetail struct {
	Place
	Reviews []Review      `json:"reviews"`
	Summary ReviewSummary `json:"summary"`
}

// Review is one provider review.
type Review struct {
	Author *string  `json:"author,omitempty"`
	Rating *float64 `json:"rating,omitempty"`
	Text   string   `json:"text"`
}

// ReviewSummary is the digest of a place's reviews.
type ReviewSummary struct {
	WhatPeopleSay []string `json:"whatPeopleSay"`
	Pros          []string `json:"pros"`
	Cons          []string `json:"cons"`
	BestFor       []string `json:"bestFor"`
}
