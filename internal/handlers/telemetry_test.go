package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"swms-backend/internal/models"
	"swms-backend/internal/services"
	"swms-backend/internal/websocket"
)

var testThresholds = services.Thresholds{FillWarning: 80, FillCritical: 90, TempCritical: 60}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock db: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func newHub(t *testing.T) *websocket.Hub {
	t.Helper()
	hub := websocket.NewHub()
	go hub.Run()
	return hub
}

func telemetryBody(t *testing.T, fill, temp float64) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(models.TelemetryRequest{
		BinID:        "BIN-001",
		FillLevel:    fill,
		TemperatureC: temp,
		Location:     &models.Location{Lat: -1.2864, Lng: 36.8172},
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	return bytes.NewReader(body)
}

func binRows(fill, temp float64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "bin_id", "fill_level", "temperature_c", "battery_level",
		"latitude", "longitude", "last_seen_at", "created_at", "updated_at",
	}).AddRow("bin-uuid", "BIN-001", fill, temp, nil, -1.2864, 36.8172, int64(1756700000), int64(1756700000), int64(1756700000))
}

func TestIngestCommitsSampleAndAlertTogether(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO bins").WillReturnRows(binRows(95, 25))
	mock.ExpectExec("INSERT INTO telemetry_records").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO alerts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	handler := IngestTelemetry(db, newHub(t), nil, testThresholds)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/telemetry", telemetryBody(t, 95, 25)))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.IngestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "accepted" || resp.AlertsCreated != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// A failed history insert must roll the snapshot upsert back; the
// sample applies fully or not at all.
func TestIngestRollsBackWhenHistoryInsertFails(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO bins").WillReturnRows(binRows(95, 25))
	mock.ExpectExec("INSERT INTO telemetry_records").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	handler := IngestTelemetry(db, newHub(t), nil, testThresholds)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/telemetry", telemetryBody(t, 95, 25)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Same guarantee when the alert batch fails after both bin writes.
func TestIngestRollsBackWhenAlertInsertFails(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO bins").WillReturnRows(binRows(95, 25))
	mock.ExpectExec("INSERT INTO telemetry_records").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO alerts").WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	handler := IngestTelemetry(db, newHub(t), nil, testThresholds)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/telemetry", telemetryBody(t, 95, 25)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIngestRejectsInvalidSampleBeforeTouchingTheDatabase(t *testing.T) {
	db, mock := newMockDB(t)

	handler := IngestTelemetry(db, newHub(t), nil, testThresholds)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/telemetry", telemetryBody(t, 120, 25)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("database was touched for an invalid sample: %v", err)
	}
}
