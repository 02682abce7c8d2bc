package models

import (
	"math"
	"testing"
	"time"
)

func validRequest() TelemetryRequest {
	return TelemetryRequest{
		BinID:        "BIN-001",
		FillLevel:    55,
		TemperatureC: 24,
		Location:     &Location{Lat: -1.2833, Lng: 36.8167},
	}
}

func TestTelemetryRequestValidate(t *testing.T) {
	battery := 150.0
	badTimestamp := "yesterday"
	goodTimestamp := "2026-08-30T10:00:00Z"

	tests := []struct {
		name    string
		mutate  func(*TelemetryRequest)
		wantErr bool
	}{
		{"valid minimal", func(r *TelemetryRequest) {}, false},
		{"valid with timestamp", func(r *TelemetryRequest) { r.Timestamp = &goodTimestamp }, false},
		{"missing binId", func(r *TelemetryRequest) { r.BinID = "" }, true},
		{"fill below range", func(r *TelemetryRequest) { r.FillLevel = -1 }, true},
		{"fill above range", func(r *TelemetryRequest) { r.FillLevel = 101 }, true},
		{"fill at bounds", func(r *TelemetryRequest) { r.FillLevel = 100 }, false},
		{"temperature too low", func(r *TelemetryRequest) { r.TemperatureC = -21 }, true},
		{"temperature too high", func(r *TelemetryRequest) { r.TemperatureC = 151 }, true},
		{"battery out of range", func(r *TelemetryRequest) { r.BatteryLevel = &battery }, true},
		{"missing location", func(r *TelemetryRequest) { r.Location = nil }, true},
		{"NaN latitude", func(r *TelemetryRequest) { r.Location.Lat = math.NaN() }, true},
		{"infinite longitude", func(r *TelemetryRequest) { r.Location.Lng = math.Inf(1) }, true},
		{"bad timestamp format", func(r *TelemetryRequest) { r.Timestamp = &badTimestamp }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestTelemetryRequestRecordedAt(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	req := validRequest()
	if got := req.RecordedAt(now); got != now.Unix() {
		t.Fatalf("expected fallback to now (%d), got %d", now.Unix(), got)
	}

	ts := "2026-08-29T06:30:00Z"
	req.Timestamp = &ts
	want := time.Date(2026, 8, 29, 6, 30, 0, 0, time.UTC).Unix()
	if got := req.RecordedAt(now); got != want {
		t.Fatalf("expected device timestamp %d, got %d", want, got)
	}
}

func TestStopStatusRequestValidate(t *testing.T) {
	longNote := string(make([]byte, 501))

	tests := []struct {
		name    string
		req     StopStatusRequest
		wantErr bool
	}{
		{"collected", StopStatusRequest{Status: StopStatusCollected}, false},
		{"skipped", StopStatusRequest{Status: StopStatusSkipped}, false},
		{"damaged", StopStatusRequest{Status: StopStatusDamaged}, false},
		{"pending is not a valid target", StopStatusRequest{Status: StopStatusPending}, true},
		{"unknown status", StopStatusRequest{Status: "eaten"}, true},
		{"note too long", StopStatusRequest{Status: StopStatusCollected, Note: &longNote}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
