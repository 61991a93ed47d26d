package telemetry

// Collector accumulates agent events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	harvested   int
	removed     int
	irrigations int
	emergencies int
	explored    int
	deaths      int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordIrrigation records one irrigation action.
func (c *Collector) RecordIrrigation(emergency, explored bool) {
	c.irrigations++
	if emergency {
		c.emergencies++
	}
	if explored {
		c.explored++
	}
}

// RecordHarvest records a mature plant collected and replanted.
func (c *Collector) RecordHarvest() {
	c.harvested++
}

// RecordRemoval records a dead plant cleared and replanted.
func (c *Collector) RecordRemoval() {
	c.removed++
}

// RecordDeath records a plant dying in its slot.
func (c *Collector) RecordDeath() {
	c.deaths++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// FieldState is the population sample taken at window end.
type FieldState struct {
	Living   int
	Critical int
	Mature   int
	Dead     int

	Water    []float64 // living plants only
	Maturity []float64 // living plants only

	Temperature float64
	Activation  float64 // fuzzy policy activation, 0 for threshold
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, field FieldState) WindowStats {
	waterMean, waterP10, waterP50, waterP90 := ComputeLevelStats(field.Water)
	maturityMean, _, maturityP50, _ := ComputeLevelStats(field.Maturity)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		Temperature:     field.Temperature,

		Living:   field.Living,
		Critical: field.Critical,
		Mature:   field.Mature,
		Dead:     field.Dead,

		Harvested:   c.harvested,
		Removed:     c.removed,
		Irrigations: c.irrigations,
		Emergencies: c.emergencies,
		Explored:    c.explored,
		Deaths:      c.deaths,

		WaterMean: waterMean,
		WaterP10:  waterP10,
		WaterP50:  waterP50,
		WaterP90:  waterP90,

		MaturityMean: maturityMean,
		MaturityP50:  maturityP50,

		Activation: field.Activation,
	}
	if c.irrigations > 0 {
		stats.EmergencyRate = float64(c.emergencies) / float64(c.irrigations)
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.harvested = 0
	c.removed = 0
	c.irrigations = 0
	c.emergencies = 0
	c.explored = 0
	c.deaths = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
