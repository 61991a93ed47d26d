package systems

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/plot/components"
	"github.com/pthm-cable/plot/config"
)

// Sensor messages.
const (
	MsgSensorWaiting = "Waiting for reading..."
)

// Snapshot is the sensor's view of the population at one reading.
// Bucket slices hold indices into the plant slice that was sensed.
type Snapshot struct {
	Critical   []int
	Preventive []int
	Mature     []int
	Dead       []int

	Living       int
	MeanWater    float64 // over living plants, 0 if none
	MeanMaturity float64 // over living plants, 0 if none
}

// Summary returns the one-line report shown next to the plot.
func (s Snapshot) Summary() string {
	return fmt.Sprintf("Irrigation -> Critical: %d, Preventive: %d | Harvest -> Mature: %d, Dead: %d",
		len(s.Critical), len(s.Preventive), len(s.Mature), len(s.Dead))
}

// Reading is the result of one Sense call.
type Reading struct {
	Waiting  bool
	Snapshot Snapshot
	Message  string
}

// Sensor is a rate-limited, read-only observer of the plant population.
type Sensor struct {
	cooldown   Cooldown
	critical   float64
	preventive float64
}

// NewSensor creates a sensor from config.
func NewSensor(cfg config.SensorConfig, clock Clock) *Sensor {
	return &Sensor{
		cooldown:   NewCooldown(seconds(cfg.Delay), clock),
		critical:   cfg.CriticalWaterLevel,
		preventive: cfg.PreventiveWaterLevel,
	}
}

// Sense takes a snapshot of plants unless the sensor is cooling down.
// Plants are never mutated.
func (s *Sensor) Sense(plants []*components.Plant) (Reading, error) {
	if !s.cooldown.Ready() {
		return Reading{Waiting: true, Message: MsgSensorWaiting}, nil
	}
	if err := components.ValidatePlants(plants); err != nil {
		return Reading{}, err
	}

	var snap Snapshot
	var water, maturity []float64

	for i, p := range plants {
		if p.Collected {
			continue
		}

		// Dead plants sit at zero water and count toward the water buckets
		if p.Water < s.critical {
			snap.Critical = append(snap.Critical, i)
		} else if p.Water < s.preventive {
			snap.Preventive = append(snap.Preventive, i)
		}

		if p.Dead {
			snap.Dead = append(snap.Dead, i)
			continue
		}
		if p.Maturity >= components.MaxLevel {
			snap.Mature = append(snap.Mature, i)
		}

		water = append(water, p.Water)
		maturity = append(maturity, p.Maturity)
	}

	snap.Living = len(water)
	if snap.Living > 0 {
		snap.MeanWater = stat.Mean(water, nil)
		snap.MeanMaturity = stat.Mean(maturity, nil)
	}

	s.cooldown.Mark()

	return Reading{Snapshot: snap, Message: snap.Summary()}, nil
}
