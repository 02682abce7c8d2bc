package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"swms-backend/internal/models"
	"swms-backend/internal/optimizer"
)

func TestOptimizerClientRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/optimize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req struct {
			Depot models.Location       `json:"depot"`
			Bins  []optimizer.Candidate `json:"bins"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.Bins) != 2 {
			t.Errorf("expected 2 bins, got %d", len(req.Bins))
		}

		json.NewEncoder(w).Encode(optimizer.Plan{
			Algorithm: optimizer.AlgorithmName,
			Stops:     []string{"B", "A"},
		})
	}))
	defer srv.Close()

	client := NewOptimizerClient(srv.URL)
	plan, err := client.Optimize(context.Background(), models.Location{Lat: 0, Lng: 0}, []optimizer.Candidate{
		{BinID: "A", Location: models.Location{Lat: 1, Lng: 1}, Priority: 1},
		{BinID: "B", Location: models.Location{Lat: 2, Lng: 2}, Priority: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.Algorithm != optimizer.AlgorithmName {
		t.Errorf("expected algorithm %q, got %q", optimizer.AlgorithmName, plan.Algorithm)
	}
	if len(plan.Stops) != 2 || plan.Stops[0] != "B" {
		t.Errorf("unexpected stop order: %v", plan.Stops)
	}
}

func TestOptimizerClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOptimizerClient(srv.URL)
	_, err := client.Optimize(context.Background(), models.Location{}, nil)
	if !errors.Is(err, ErrOptimizerUnavailable) {
		t.Fatalf("expected ErrOptimizerUnavailable, got %v", err)
	}
}

func TestOptimizerClientUnreachable(t *testing.T) {
	// Port 1 is never listening.
	client := NewOptimizerClient("http://127.0.0.1:1")
	_, err := client.Optimize(context.Background(), models.Location{}, nil)
	if !errors.Is(err, ErrOptimizerUnavailable) {
		t.Fatalf("expected ErrOptimizerUnavailable, got %v", err)
	}
}

func TestOptimizerClientGarbageResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewOptimizerClient(srv.URL)
	_, err := client.Optimize(context.Background(), models.Location{}, nil)
	if !errors.Is(err, ErrOptimizerUnavailable) {
		t.Fatalf("expected ErrOptimizerUnavailable, got %v", err)
	}
}
