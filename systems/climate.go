package systems

import (
	"math"
	"time"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/plot/config"
)

// Climate produces the air temperature the irrigator decides under:
// a diurnal sine wave plus smooth simplex-noise jitter.
type Climate struct {
	base      float64
	amplitude float64
	period    time.Duration
	jitter    float64
	noiseRate float64
	noise     opensimplex.Noise
}

// NewClimate creates a climate model seeded for reproducible runs.
func NewClimate(cfg config.ClimateConfig, seed int64) *Climate {
	return &Climate{
		base:      cfg.BaseTemp,
		amplitude: cfg.Amplitude,
		period:    seconds(cfg.Period),
		jitter:    cfg.Jitter,
		noiseRate: cfg.NoiseRate,
		noise:     opensimplex.New(seed),
	}
}

// Temperature returns the temperature at elapsed simulated time t.
func (c *Climate) Temperature(t time.Duration) float64 {
	temp := c.base
	sec := t.Seconds()
	if c.period > 0 {
		temp += c.amplitude * math.Sin(2*math.Pi*sec/c.period.Seconds())
	}
	if c.jitter != 0 {
		temp += c.jitter * c.noise.Eval2(sec*c.noiseRate, 0)
	}
	return temp
}

// Bounds returns the lowest and highest temperature the model can produce.
func (c *Climate) Bounds() (lo, hi float64) {
	spread := math.Abs(c.jitter)
	if c.period > 0 {
		spread += math.Abs(c.amplitude)
	}
	return c.base - spread, c.base + spread
}
