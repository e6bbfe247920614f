package models

// OptimizeRouteRequest is the body of POST /v1/routes:optimize. Without
// candidates the caller's last search results are used.
type OptimizeRouteRequest struct {
	Candidates []Place `json:"candidates,omitempty"`
}

// OptimizeRouteResponse is the ordered route and its navigation link.
type OptimizeRouteResponse struct {
	URL   string      `json:"url"`
	Stops []RouteStop `json:"stops"`
}

// RouteStop is one stop in visiting order.
type RouteStop struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	ETAFromPrevMin int     `json:"etaFromPrevMin"`
	PlannedStart   string  `json:"plannedStart"`
	PlannedEnd     string  `json:"plannedEnd"`
}
