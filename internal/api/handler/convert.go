package handler

import (
	"github.com/nomadtravel/nomad/internal/api/models"
	"github.com/nomadtravel/nomad/internal/assistant"
	"github.com/nomadtravel/nomad/internal/itinerary"
	"github.com/nomadtravel/nomad/internal/places"
	"github.com/nomadtravel/nomad/internal/route"
)

func toItinerary(trip *itinerary.Trip) models.Itinerary {
	snapshot := trip.Store.Snapshot()
	out := models.Itinerary{
		Name: trip.Name,
		Days: make([]models.ItineraryDay, 0, len(snapshot)),
	}
	for _, d := range snapshot {
		out.Days = append(out.Days, toDay(d))
	}
	return out
}

func toDay(d itinerary.DaySnapshot) models.ItineraryDay {
	return models.ItineraryDay{
		ID:         d.Day.ID,
		Label:      d.Day.Label,
		DateLabel:  d.Day.DateLabel,
		Version:    d.Version,
		Activities: toActivities(d.Activities),
	}
}

func toActivities(in []itinerary.Activity) []models.Activity {
	out := make([]models.Activity, len(in))
	for i, a := range in {
		out[i] = toActivity(a)
	}
	return out
}

func toActivity(a itinerary.Activity) models.Activity {
	return models.Activity{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Time:        a.Time,
		Duration:    a.Duration,
		ImageURL:    a.ImageURL,
	}
}

func toDraft(req models.CreateActivityRequest) itinerary.Draft {
	return itinerary.Draft{
		Title:       req.Title,
		Description: req.Description,
		Time:        req.Time,
		Duration:    req.Duration,
		ImageURL:    req.ImageURL,
	}
}

func toPlaces(in []places.Candidate) []models.Place {
	out := make([]models.Place, len(in))
	for i, c := range in {
		out[i] = toPlace(c)
	}
	return out
}

func toPlace(c places.Candidate) models.Place {
	return models.Place{
		ID:              c.ID,
		Name:            c.Name,
		Address:         c.Address,
		Lat:             c.Lat,
		Lng:             c.Lng,
		Rating:          c.Rating,
		UserRatingCount: c.UserRatingCount,
	}
}

func fromPlaces(in []models.Place) []places.Candidate {
	out := make([]places.Candidate, len(in))
	for i, p := range in {
		out[i] = places.Candidate{
			ID:              p.ID,
			Name:            p.Name,
			Address:         p.Address,
			Lat:             p.Lat,
			Lng:             p.Lng,
			Rating:          p.Rating,
			UserRatingCount: p.UserRatingCount,
		}
	}
	return out
}

func toPlaceDetail(insight *assistant.PlaceInsight) models.PlaceDetail {
	out := models.PlaceDetail{
		Reviews: []models.Review{},
		Summary: models.ReviewSummary{
			WhatPeopleSay: insight.Summary.WhatPeopleSay,
			Pros:          insight.Summary.Pros,
			Cons:          insight.Summary.Cons,
			BestFor:       insight.Summary.BestFor,
		},
	}
	if insight.Details == nil {
		return out
	}
	out.Place = toPlace(insight.Details.Candidate)
	for _, r := range insight.Details.Reviews {
		out.Reviews = append(out.Reviews, models.Review{Author: r.Author, Rating: r.Rating, Text: r.Text})
	}
	return out
}

func toRoute(res *route.Result) models.OptimizeRouteResponse {
	out := models.OptimizeRouteResponse{
		URL:   res.URL,
		Stops: make([]models.RouteStop, len(res.Stops)),
	}
	for i, s := range res.Stops {
		out.Stops[i] = models.RouteStop{
			ID:             s.ID,
			Name:           s.Name,
			Lat:            s.Lat,
			Lng:            s.Lng,
			ETAFromPrevMin: s.ETAFromPrevMin,
			PlannedStart:   s.PlannedStart,
			PlannedEnd:     s.PlannedEnd,
		}
	}
	return out
}

func fromMessages(in []models.ChatMessage) []assistant.Message {
	out := make([]assistant.Message, len(in))
	for i, m := range in {
		out[i] = assistant.Message{Role: assistant.Role(m.Role), Content: m.Content}
	}
	return out
}
