package telemetry

import (
	"log/slog"
	"time"
)

// Grades assigned by Grade.
const (
	GradeExcellent = "excellent"
	GradeGood      = "good"
	GradeFair      = "fair"
	GradeCritical  = "critical"
)

// Totals are the running counters of a run.
type Totals struct {
	Harvested   int
	Removed     int
	Irrigations int
	Emergencies int
	Deaths      int
}

// SuccessRate returns harvested / (harvested + removed) as a percentage.
// ok is false until at least one plant has been collected.
func (t Totals) SuccessRate() (rate float64, ok bool) {
	done := t.Harvested + t.Removed
	if done == 0 {
		return 0, false
	}
	return float64(t.Harvested) / float64(done) * 100, true
}

// Grade classifies a success rate.
func Grade(rate float64) string {
	switch {
	case rate >= 80:
		return GradeExcellent
	case rate >= 60:
		return GradeGood
	case rate >= 40:
		return GradeFair
	default:
		return GradeCritical
	}
}

// PeriodicReport is the field summary logged every report interval.
type PeriodicReport struct {
	SimTime      time.Duration
	Living       int
	MeanWater    float64
	MeanMaturity float64
	Totals       Totals
}

// LogValue implements slog.LogValuer for structured logging.
func (r PeriodicReport) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("sim_time_sec", int(r.SimTime.Seconds())),
		slog.Int("living", r.Living),
		slog.Float64("water_mean", r.MeanWater),
		slog.Float64("maturity_mean", r.MeanMaturity),
		slog.Int("harvested", r.Totals.Harvested),
		slog.Int("removed", r.Totals.Removed),
	)
}

// FinalReport summarises a finished run.
type FinalReport struct {
	Elapsed     time.Duration
	Plants      int
	Living      int
	Totals      Totals
	SuccessRate float64
	Graded      bool // false when nothing was collected
	Grade       string
}

// NewFinalReport builds the end-of-run summary.
func NewFinalReport(elapsed time.Duration, plants, living int, totals Totals) FinalReport {
	r := FinalReport{
		Elapsed: elapsed,
		Plants:  plants,
		Living:  living,
		Totals:  totals,
	}
	if rate, ok := totals.SuccessRate(); ok {
		r.SuccessRate = rate
		r.Graded = true
		r.Grade = Grade(rate)
	}
	return r
}

// LogValue implements slog.LogValuer for structured logging.
func (r FinalReport) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("elapsed_sec", int(r.Elapsed.Seconds())),
		slog.Int("plants", r.Plants),
		slog.Int("harvested", r.Totals.Harvested),
		slog.Int("removed", r.Totals.Removed),
		slog.Int("living", r.Living),
		slog.Int("irrigations", r.Totals.Irrigations),
		slog.Int("emergencies", r.Totals.Emergencies),
		slog.Int("deaths", r.Totals.Deaths),
	}
	if r.Graded {
		attrs = append(attrs,
			slog.Float64("success_rate", r.SuccessRate),
			slog.String("grade", r.Grade),
		)
	}
	return slog.GroupValue(attrs...)
}
