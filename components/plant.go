// Package components defines the plain data the simulation operates on:
// plants and the ECS components attached to agent entities.
package components

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/plot/config"
)

// MaxLevel is the upper bound for both maturity and water.
const MaxLevel = 100.0

// PlantStatus is the derived lifecycle state of a plant.
type PlantStatus uint8

const (
	StatusHealthy PlantStatus = iota
	StatusCritical
	StatusMature
	StatusDead
	StatusCollected
)

func (s PlantStatus) String() string {
	switch s {
	case StatusCritical:
		return "critical"
	case StatusMature:
		return "mature"
	case StatusDead:
		return "dead"
	case StatusCollected:
		return "collected"
	default:
		return "healthy"
	}
}

// Plant is one cultivated unit at a fixed grid position.
// Dead and Collected are the only stored lifecycle flags; the rest of the
// state machine is derived from Maturity and Water.
type Plant struct {
	X, Y int

	Maturity          float64 // 0..100
	Water             float64 // 0..100
	GrowthFactor      float64 // maturity gained per tick, > 0
	ConsumptionFactor float64 // water lost per tick, > 0

	Collected bool
	Dead      bool

	TimeFullyMature int // consecutive ticks at Maturity == 100
	OverripeLimit   int

	// CriticalWater is the threshold behind IsCritical.
	CriticalWater float64

	traits config.PlantConfig
	rng    *rand.Rand
}

// NewPlant places a plant at (x, y) and draws its initial state.
func NewPlant(x, y int, traits config.PlantConfig, rng *rand.Rand) *Plant {
	p := &Plant{
		X:             x,
		Y:             y,
		CriticalWater: traits.CriticalWater,
		traits:        traits,
		rng:           rng,
	}
	p.Reset()
	return p
}

// Reset starts a new growth cycle in the same slot.
func (p *Plant) Reset() {
	if p.rng != nil {
		p.Maturity = p.uniform(p.traits.Maturity)
		p.Water = p.uniform(p.traits.Water)
		p.GrowthFactor = p.uniform(p.traits.Growth)
		p.ConsumptionFactor = p.uniform(p.traits.Consumption)
		lo, hi := int(p.traits.OverripeLimit.Min), int(p.traits.OverripeLimit.Max)
		p.OverripeLimit = lo + p.rng.Intn(hi-lo+1)
	}
	p.Collected = false
	p.Dead = false
	p.TimeFullyMature = 0
}

func (p *Plant) uniform(r config.Range) float64 {
	return r.Min + p.rng.Float64()*(r.Max-r.Min)
}

// Update advances the plant by one tick.
func (p *Plant) Update() {
	if p.Dead || p.Collected {
		return
	}

	if p.Water <= 0 {
		p.Water = 0
		p.Dead = true
		return
	}

	p.Maturity = math.Min(MaxLevel, p.Maturity+p.GrowthFactor)
	p.Water = math.Max(0, p.Water-p.ConsumptionFactor)

	if p.Maturity >= MaxLevel {
		p.TimeFullyMature++
		if p.TimeFullyMature > p.OverripeLimit {
			p.Dead = true
		}
	} else {
		p.TimeFullyMature = 0
	}

	// Running dry kills on the same tick
	if p.Water == 0 {
		p.Dead = true
	}
}

// IsMatureReady reports whether the plant can be harvested.
func (p *Plant) IsMatureReady() bool {
	return p.Maturity >= MaxLevel && !p.Dead && !p.Collected
}

// IsCritical reports whether the plant urgently needs water.
func (p *Plant) IsCritical() bool {
	return p.Water < p.CriticalWater && !p.Dead && !p.Collected
}

// IsAlive reports whether the plant is still growing in its slot.
func (p *Plant) IsAlive() bool {
	return !p.Dead && !p.Collected
}

// Status returns the derived lifecycle state.
func (p *Plant) Status() PlantStatus {
	switch {
	case p.Dead:
		return StatusDead
	case p.Collected:
		return StatusCollected
	case p.IsMatureReady():
		return StatusMature
	case p.IsCritical():
		return StatusCritical
	default:
		return StatusHealthy
	}
}

// Pos returns the plant's grid position.
func (p *Plant) Pos() Position {
	return Position{X: p.X, Y: p.Y}
}

func (p *Plant) String() string {
	return fmt.Sprintf("Plant(%d, %d) - maturity: %.1f%%, water: %.1f%%, status: %s",
		p.X, p.Y, p.Maturity, p.Water, p.Status())
}

// Validate checks the plant's state against its invariants.
func (p *Plant) Validate() error {
	switch {
	case math.IsNaN(p.Water) || p.Water < 0 || p.Water > MaxLevel:
		return &InvalidPlantError{X: p.X, Y: p.Y, Reason: fmt.Sprintf("water %v outside [0,100]", p.Water)}
	case math.IsNaN(p.Maturity) || p.Maturity < 0 || p.Maturity > MaxLevel:
		return &InvalidPlantError{X: p.X, Y: p.Y, Reason: fmt.Sprintf("maturity %v outside [0,100]", p.Maturity)}
	case !(p.GrowthFactor > 0):
		return &InvalidPlantError{X: p.X, Y: p.Y, Reason: "growth factor must be positive"}
	case !(p.ConsumptionFactor > 0):
		return &InvalidPlantError{X: p.X, Y: p.Y, Reason: "consumption factor must be positive"}
	}
	return nil
}

// InvalidPlantError reports a plant that breaks the caller contract.
type InvalidPlantError struct {
	Index  int
	X, Y   int
	Reason string
}

func (e *InvalidPlantError) Error() string {
	return fmt.Sprintf("invalid plant #%d at (%d, %d): %s", e.Index, e.X, e.Y, e.Reason)
}

// ValidatePlants checks every plant in the population.
// The first failure is returned with its index filled in.
func ValidatePlants(plants []*Plant) error {
	for i, p := range plants {
		if p == nil {
			return &InvalidPlantError{Index: i, Reason: "nil plant"}
		}
		if err := p.Validate(); err != nil {
			var ipe *InvalidPlantError
			if errors.As(err, &ipe) {
				ipe.Index = i
			}
			return err
		}
	}
	return nil
}
