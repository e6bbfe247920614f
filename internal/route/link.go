package route

import (
	"net/url"
	"strconv"
	"strings"
)

// DirectionsBaseURL is the Google Maps directions endpoint used for deep links.
const DirectionsBaseURL = "https://www.google.com/maps/dir/"

// BuildDeepLink renders stops as a multi-waypoint Google Maps link. The last stop is
// the destination and every stop, in order, is a waypoint. A single stop yields an
// empty waypoints parameter.
func BuildDeepLink(stops []Stop) (string, error) {
	if len(stops) == 0 {
		return "", ErrEmptyRoute
	}

	last := stops[len(stops)-1]
	q := url.Values{}
	q.Set("api", "1")
	q.Set("destination", formatCoord(last.Lat, last.Lng))

	var waypoints []string
	if len(stops) > 1 {
		waypoints = make([]string, len(stops))
		for i, s := range stops {
			waypoints[i] = formatCoord(s.Lat, s.Lng)
		}
	}
	q.Set("waypoints", strings.Join(waypoints, "|"))

	return DirectionsBaseURL + "?" + q.Encode(), nil
}

func formatCoord(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
