package telemetry

import (
	"math"
	"testing"
)

func TestComputeLevelStats(t *testing.T) {
	values := []float64{100, 90, 80, 70, 60, 50, 40, 30, 20, 10}
	mean, p10, p50, p90 := ComputeLevelStats(values)

	if math.Abs(mean-55) > 0.001 {
		t.Errorf("mean = %v, want 55", mean)
	}
	if p10 != 10 {
		t.Errorf("p10 = %v, want 10", p10)
	}
	if p50 != 50 {
		t.Errorf("p50 = %v, want 50", p50)
	}
	if p90 != 90 {
		t.Errorf("p90 = %v, want 90", p90)
	}

	// input must not be reordered
	if values[0] != 100 {
		t.Error("ComputeLevelStats sorted the caller's slice")
	}
}

func TestComputeLevelStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeLevelStats(nil)

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollectorWindows(t *testing.T) {
	// 1s windows at 12 ticks per second
	c := NewCollector(1, 1.0/12)
	if got := c.WindowDurationTicks(); got != 11 && got != 12 {
		t.Fatalf("window ticks = %d, want ~12", got)
	}

	c.RecordIrrigation(true, false)
	c.RecordIrrigation(false, true)
	c.RecordIrrigation(false, false)
	c.RecordHarvest()
	c.RecordRemoval()
	c.RecordDeath()

	if c.ShouldFlush(c.WindowDurationTicks() - 1) {
		t.Error("flushed before window end")
	}
	end := c.WindowDurationTicks()
	if !c.ShouldFlush(end) {
		t.Fatal("window should be ready to flush")
	}

	s := c.Flush(end, FieldState{
		Living:   2,
		Critical: 1,
		Water:    []float64{20, 60},
		Maturity: []float64{40, 80},
	})
	if s.Irrigations != 3 || s.Emergencies != 1 || s.Explored != 1 {
		t.Errorf("irrigation counters = %+v", s)
	}
	if s.Harvested != 1 || s.Removed != 1 || s.Deaths != 1 {
		t.Errorf("harvest counters = %+v", s)
	}
	if math.Abs(s.EmergencyRate-1.0/3) > 1e-9 {
		t.Errorf("emergency rate = %v", s.EmergencyRate)
	}
	if s.WaterMean != 40 || s.MaturityMean != 60 {
		t.Errorf("means = %v/%v, want 40/60", s.WaterMean, s.MaturityMean)
	}
	if s.WindowStartTick != 0 || s.WindowEndTick != end {
		t.Errorf("window = [%d, %d]", s.WindowStartTick, s.WindowEndTick)
	}

	// counters reset
	next := c.Flush(2*end, FieldState{})
	if next.Irrigations != 0 || next.Harvested != 0 || next.EmergencyRate != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
	if next.WindowStartTick != end {
		t.Errorf("next window starts at %d, want %d", next.WindowStartTick, end)
	}
}
