package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.BeginFrame()
		pc.StartPhase(PhaseStep)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseSubmit)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgWork <= 0 {
		t.Error("expected positive average work duration")
	}
	if stats.PhaseAvg[PhaseStep] <= 0 {
		t.Error("expected step phase to be tracked")
	}
	if stats.PhaseAvg[PhaseSubmit] <= 0 {
		t.Error("expected submit phase to be tracked")
	}
	if stats.PhaseAvg[PhaseDrift] != 0 {
		t.Error("expected untouched drift phase to stay zero")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.BeginFrame()
		pc.StartPhase(PhaseStep)
		time.Sleep(10 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgWork <= 0 {
		t.Error("expected positive average work after window filled")
	}
	if stats.Capacity <= 0 {
		t.Error("expected positive capacity")
	}
	if pc.sampleCount != 5 {
		t.Errorf("expected sample count capped at 5, got %d", pc.sampleCount)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.BeginFrame()
		pc.StartPhase(PhaseDrift)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseSubmit)
		time.Sleep(100 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.PhasePct[PhaseSubmit] <= stats.PhasePct[PhaseDrift] {
		t.Errorf("expected submit (%v%%) > drift (%v%%)", stats.PhasePct[PhaseSubmit], stats.PhasePct[PhaseDrift])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	if stats.AvgWork != 0 {
		t.Error("expected zero avg work for empty collector")
	}
	if stats.FPS != 0 {
		t.Error("expected zero FPS before any refresh interval")
	}
}

func TestPerfCollector_RefreshTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordRefresh()
	time.Sleep(16 * time.Millisecond)
	pc.RecordRefresh()

	stats := pc.Stats()

	if stats.RefreshInterval < 15*time.Millisecond {
		t.Errorf("expected refresh interval >= 15ms, got %v", stats.RefreshInterval)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms refreshes, got %v", stats.FPS)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseStep.String() != "step" || PhaseTelemetry.String() != "telemetry" {
		t.Errorf("unexpected names %q, %q", PhaseStep, PhaseTelemetry)
	}
	if Phase(99).String() != "unknown" {
		t.Errorf("expected unknown for out-of-range phase")
	}
}
