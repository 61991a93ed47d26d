package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Temperature     float64 `csv:"temperature"`

	// Field counts at window end
	Living   int `csv:"living"`
	Critical int `csv:"critical"`
	Mature   int `csv:"mature"`
	Dead     int `csv:"dead"`

	// Events during window
	Harvested     int     `csv:"harvested"`
	Removed       int     `csv:"removed"`
	Irrigations   int     `csv:"irrigations"`
	Emergencies   int     `csv:"emergencies"`
	Explored      int     `csv:"explored"`
	Deaths        int     `csv:"deaths"`
	EmergencyRate float64 `csv:"emergency_rate"`

	// Water distribution over living plants (sampled at window end)
	WaterMean float64 `csv:"water_mean"`
	WaterP10  float64 `csv:"water_p10"`
	WaterP50  float64 `csv:"water_p50"`
	WaterP90  float64 `csv:"water_p90"`

	MaturityMean float64 `csv:"maturity_mean"`
	MaturityP50  float64 `csv:"maturity_p50"`

	Activation float64 `csv:"activation"`
}

// ComputeLevelStats calculates mean and empirical quantiles of water or
// maturity levels. Returns zeros for an empty slice.
func ComputeLevelStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("temperature", s.Temperature),
		slog.Int("living", s.Living),
		slog.Int("critical", s.Critical),
		slog.Int("mature", s.Mature),
		slog.Int("dead", s.Dead),
		slog.Int("harvested", s.Harvested),
		slog.Int("removed", s.Removed),
		slog.Int("irrigations", s.Irrigations),
		slog.Int("emergencies", s.Emergencies),
		slog.Int("explored", s.Explored),
		slog.Int("deaths", s.Deaths),
		slog.Float64("emergency_rate", s.EmergencyRate),
		slog.Float64("water_mean", s.WaterMean),
		slog.Float64("water_p10", s.WaterP10),
		slog.Float64("water_p50", s.WaterP50),
		slog.Float64("water_p90", s.WaterP90),
		slog.Float64("maturity_mean", s.MaturityMean),
		slog.Float64("maturity_p50", s.MaturityP50),
		slog.Float64("activation", s.Activation),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"temperature", s.Temperature,
		"living", s.Living,
		"critical", s.Critical,
		"mature", s.Mature,
		"dead", s.Dead,
		"harvested", s.Harvested,
		"removed", s.Removed,
		"irrigations", s.Irrigations,
		"emergencies", s.Emergencies,
		"explored", s.Explored,
		"deaths", s.Deaths,
		"emergency_rate", s.EmergencyRate,
		"water_mean", s.WaterMean,
		"water_p10", s.WaterP10,
		"water_p50", s.WaterP50,
		"water_p90", s.WaterP90,
		"maturity_mean", s.MaturityMean,
		"maturity_p50", s.MaturityP50,
		"activation", s.Activation,
	)
}
