package services

import "testing"

var testThresholds = Thresholds{FillWarning: 80, FillCritical: 90, TempCritical: 60}

func TestEvaluateAlertsCriticalFillOnly(t *testing.T) {
	// Critical suppresses the warning; it must not emit both.
	alerts := EvaluateAlerts("BIN-001", 95, 40, testThresholds)

	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d: %+v", len(alerts), alerts)
	}
	if alerts[0].Type != "fill_critical" {
		t.Fatalf("type = %q, want fill_critical", alerts[0].Type)
	}
	if alerts[0].Level != "critical" {
		t.Fatalf("level = %q, want critical", alerts[0].Level)
	}
	if alerts[0].Message != "Bin BIN-001 reached critical fill level (95%)." {
		t.Fatalf("unexpected message %q", alerts[0].Message)
	}
}

func TestEvaluateAlertsWarningAndFireRisk(t *testing.T) {
	alerts := EvaluateAlerts("BIN-002", 85, 65, testThresholds)

	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d: %+v", len(alerts), alerts)
	}
	if alerts[0].Type != "fill_warning" || alerts[0].Level != "warning" {
		t.Fatalf("first alert = %s/%s, want fill_warning/warning", alerts[0].Type, alerts[0].Level)
	}
	if alerts[1].Type != "fire_risk" || alerts[1].Level != "critical" {
		t.Fatalf("second alert = %s/%s, want fire_risk/critical", alerts[1].Type, alerts[1].Level)
	}
}

func TestEvaluateAlertsFireRiskIndependentOfFill(t *testing.T) {
	alerts := EvaluateAlerts("BIN-003", 10, 72, testThresholds)

	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Type != "fire_risk" {
		t.Fatalf("type = %q, want fire_risk", alerts[0].Type)
	}
	if alerts[0].Message != "Bin BIN-003 has high temperature (72 C)." {
		t.Fatalf("unexpected message %q", alerts[0].Message)
	}
}

func TestEvaluateAlertsQuietSample(t *testing.T) {
	if alerts := EvaluateAlerts("BIN-004", 40, 25, testThresholds); len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %+v", alerts)
	}
}

func TestEvaluateAlertsBoundaryValues(t *testing.T) {
	cases := []struct {
		name string
		fill float64
		temp float64
		want []string
	}{
		{"exactly warning", 80, 0, []string{"fill_warning"}},
		{"exactly critical", 90, 0, []string{"fill_critical"}},
		{"just below warning", 79.9, 0, nil},
		{"exactly temp critical", 0, 60, []string{"fire_risk"}},
		{"critical fill and fire", 90, 60, []string{"fill_critical", "fire_risk"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			alerts := EvaluateAlerts("BIN-005", tc.fill, tc.temp, testThresholds)
			if len(alerts) != len(tc.want) {
				t.Fatalf("got %d alerts, want %d: %+v", len(alerts), len(tc.want), alerts)
			}
			for i, typ := range tc.want {
				if alerts[i].Type != typ {
					t.Fatalf("alert %d type = %q, want %q", i, alerts[i].Type, typ)
				}
			}
		})
	}
}
