package cli

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/time-optimizer/internal/observability"
)

type alertsMock struct {
	evaluateFn func() ([]observability.Alert, error)
}

func (m *alertsMock) Evaluate() ([]observability.Alert, error) {
	return m.evaluateFn()
}

func TestAlertsCmd_NilEngine(t *testing.T) {
	orig := AlertEngine
	defer func() { AlertEngine = orig }()
	AlertEngine = nil

	err := alertsCmd.RunE(alertsCmd, []string{})
	if err == nil {
		t.Fatal("expected error when AlertEngine is nil")
	}
	if !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAlertsCmd_NoAlerts(t *testing.T) {
	orig := AlertEngine
	defer func() { AlertEngine = orig }()

	AlertEngine = &alertsMock{
		evaluateFn: func() ([]observability.Alert, error) {
			return nil, nil
		},
	}

	var err error
	out := captureStdout(t, func() {
		err = alertsCmd.RunE(alertsCmd, []string{})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "No active alerts." {
		t.Errorf("output = %q", out)
	}
}

func TestAlertsCmd_WithAlerts(t *testing.T) {
	orig := AlertEngine
	defer func() { AlertEngine = orig }()

	AlertEngine = &alertsMock{
		evaluateFn: func() ([]observability.Alert, error) {
			return []observability.Alert{
				{Severity: observability.SeverityHigh, Message: "Not enough time to fit any task into 2 hour(s)", TriggeredAt: time.Now().UTC()},
				{Severity: observability.SeverityLow, Message: "No schedule generated today", TriggeredAt: time.Now().UTC()},
			}, nil
		},
	}

	var err error
	out := captureStdout(t, func() {
		err = alertsCmd.RunE(alertsCmd, []string{})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"2 active alert(s)", "[HIGH] Not enough time", "[LOW] No schedule generated today"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAlertsCmd_EvaluateError(t *testing.T) {
	orig := AlertEngine
	defer func() { AlertEngine = orig }()

	AlertEngine = &alertsMock{
		evaluateFn: func() ([]observability.Alert, error) {
			return nil, fmt.Errorf("event log read error")
		},
	}

	err := alertsCmd.RunE(alertsCmd, []string{})
	if err == nil {
		t.Fatal("expected error from Evaluate")
	}
	if !strings.Contains(err.Error(), "evaluating alerts") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAlertsCmd_FromEventLog(t *testing.T) {
	setupCLI(t)
	seedDay(t)

	run := func() string {
		var err error
		out := captureStdout(t, func() {
			err = alertsCmd.RunE(alertsCmd, []string{})
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return out
	}

	if out := run(); !strings.Contains(out, "No schedule generated today") {
		t.Errorf("expected missing-plan alert:\n%s", out)
	}

	// Eight hours fit five hours of tasks, leaving three idle.
	if _, err := runCmd(t, planCmd, map[string]string{"hours": "8"}); err != nil {
		t.Fatalf("plan: %v", err)
	}
	out := run()
	if !strings.Contains(out, "[MEDIUM] 3 hour(s) left unscheduled") {
		t.Errorf("expected unused-hours alert:\n%s", out)
	}
	if strings.Contains(out, "No schedule generated today") {
		t.Errorf("missing-plan alert should clear after planning:\n%s", out)
	}
}
