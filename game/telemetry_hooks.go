package game

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/plot/systems"
	"github.com/pthm-cable/plot/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and emits it.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sampleField())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleField collects the population state for a stats window.
func (g *Game) sampleField() telemetry.FieldState {
	fs := telemetry.FieldState{Temperature: g.temperature}
	for _, p := range g.plants {
		switch {
		case p.Collected:
		case p.Dead:
			fs.Dead++
		default:
			fs.Living++
			fs.Water = append(fs.Water, p.Water)
			fs.Maturity = append(fs.Maturity, p.Maturity)
			if p.IsCritical() {
				fs.Critical++
			}
			if p.IsMatureReady() {
				fs.Mature++
			}
		}
	}
	if fp, ok := g.irrigator.Policy().(*systems.FuzzyPolicy); ok {
		fs.Activation = fp.Activation()
	}
	return fs
}

// periodicReport logs a field summary every report interval while any
// plant is alive.
func (g *Game) periodicReport() {
	every := g.cfg.Derived.ReportEveryTicks
	if every <= 0 || g.tick%every != 0 {
		return
	}
	r := g.PeriodicReport()
	if r.Living == 0 {
		return
	}
	slog.Info("report", "report", r)
}

// PeriodicReport summarises the living population.
func (g *Game) PeriodicReport() telemetry.PeriodicReport {
	var water, maturity []float64
	for _, p := range g.plants {
		if !p.IsAlive() {
			continue
		}
		water = append(water, p.Water)
		maturity = append(maturity, p.Maturity)
	}

	r := telemetry.PeriodicReport{
		SimTime: g.Elapsed(),
		Living:  len(water),
		Totals:  g.totals,
	}
	if r.Living > 0 {
		r.MeanWater = stat.Mean(water, nil)
		r.MeanMaturity = stat.Mean(maturity, nil)
	}
	return r
}

// writeEvent appends to the event log, logging rather than failing the step.
func (g *Game) writeEvent(e telemetry.Event) {
	if err := g.outputManager.WriteEvent(e); err != nil {
		slog.Error("failed to write event", "type", e.Type, "error", err)
	}
}
