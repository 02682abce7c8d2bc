package services

import (
	"math"
	"testing"

	"swms-backend/internal/models"
)

func ptr(f float64) *float64 { return &f }

func TestFilterCandidatesExcludesBelowWarning(t *testing.T) {
	bins := []models.Bin{
		{BinID: "low", FillLevel: 50, Latitude: ptr(1), Longitude: ptr(1)},
		{BinID: "ok", FillLevel: 80, Latitude: ptr(1), Longitude: ptr(1)},
	}

	got := FilterCandidates(bins, testThresholds)

	if len(got) != 1 || got[0].BinID != "ok" {
		t.Fatalf("candidates = %+v, want only ok", got)
	}
}

func TestFilterCandidatesExcludesMissingLocation(t *testing.T) {
	bins := []models.Bin{
		{BinID: "no-loc", FillLevel: 95},
		{BinID: "nan-lat", FillLevel: 95, Latitude: ptr(math.NaN()), Longitude: ptr(1)},
		{BinID: "inf-lng", FillLevel: 95, Latitude: ptr(1), Longitude: ptr(math.Inf(1))},
		{BinID: "routable", FillLevel: 95, Latitude: ptr(1), Longitude: ptr(1)},
	}

	got := FilterCandidates(bins, testThresholds)

	if len(got) != 1 || got[0].BinID != "routable" {
		t.Fatalf("candidates = %+v, want only routable", got)
	}
}

func TestFilterCandidatesPriority(t *testing.T) {
	bins := []models.Bin{
		{BinID: "warn", FillLevel: 82, TemperatureC: 30, Latitude: ptr(1), Longitude: ptr(1)},
		{BinID: "crit-fill", FillLevel: 92, TemperatureC: 30, Latitude: ptr(1), Longitude: ptr(1)},
		{BinID: "hot", FillLevel: 82, TemperatureC: 61, Latitude: ptr(1), Longitude: ptr(1)},
	}

	got := FilterCandidates(bins, testThresholds)

	want := map[string]int{"warn": 1, "crit-fill": 2, "hot": 2}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(got), len(want))
	}
	for _, c := range got {
		if want[c.BinID] != c.Priority {
			t.Fatalf("bin %s priority = %d, want %d", c.BinID, c.Priority, want[c.BinID])
		}
	}
}

func TestFilterCandidatesEmpty(t *testing.T) {
	if got := FilterCandidates(nil, testThresholds); len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
}
