package maintenance

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"skylarkhq/perch/pkg/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAddSweep_InvalidSchedule(t *testing.T) {
	s := New(config.MaintenanceConfig{SweepSchedule: "not a cron expr"}, discardLogger())

	if err := s.AddSweep(func() int { return 0 }); err == nil {
		t.Error("AddSweep() accepted an invalid schedule")
	}
}

func TestAddSweep_EmptyScheduleDisables(t *testing.T) {
	s := New(config.MaintenanceConfig{}, discardLogger())

	if err := s.AddSweep(func() int { return 0 }); err != nil {
		t.Errorf("AddSweep() with empty schedule: %v", err)
	}
}

func TestAddCheckpoint_InvalidSchedule(t *testing.T) {
	s := New(config.MaintenanceConfig{CheckpointSchedule: "61 * * * *"}, discardLogger())

	if err := s.AddCheckpoint(func(ctx context.Context) error { return nil }); err == nil {
		t.Error("AddCheckpoint() accepted an invalid schedule")
	}
}

func TestAddCheckpoint_ValidSchedule(t *testing.T) {
	s := New(config.MaintenanceConfig{CheckpointSchedule: "0 * * * *"}, discardLogger())

	if err := s.AddCheckpoint(func(ctx context.Context) error { return nil }); err != nil {
		t.Errorf("AddCheckpoint() error: %v", err)
	}
}

func TestStartStop_Idempotent(t *testing.T) {
	cfg := config.MaintenanceConfig{
		SweepSchedule:      "*/15 * * * *",
		CheckpointSchedule: "0 * * * *",
	}
	s := New(cfg, discardLogger())
	if err := s.AddSweep(func() int { return 0 }); err != nil {
		t.Fatal(err)
	}

	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestStop_BeforeStart(t *testing.T) {
	s := New(config.MaintenanceConfig{}, discardLogger())
	s.Stop()
}
