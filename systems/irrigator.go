package systems

import (
	"fmt"
	"math"
	"time"

	"github.com/pthm-cable/plot/components"
	"github.com/pthm-cable/plot/config"
)

// Irrigator messages.
const (
	MsgIrrigatorWaiting = "Waiting for next cycle..."
	MsgNoIrrigation     = "No plant needs irrigation."
)

// IrrigationRecord is one entry of the irrigator's append-only history.
type IrrigationRecord struct {
	Time        time.Time `csv:"-"`
	Timestamp   string    `csv:"time"`
	X           int       `csv:"x"`
	Y           int       `csv:"y"`
	Before      float64   `csv:"water_before"`
	After       float64   `csv:"water_after"`
	Emergency   bool      `csv:"emergency"`
	Emergencies int       `csv:"emergencies"`
	Policy      string    `csv:"policy"`
	Need        float64   `csv:"need"`
	Explored    bool      `csv:"explored"`
}

// IrrigationResult is the output of one Irrigate call.
// Pos is (0,0) whenever the irrigator did not act.
type IrrigationResult struct {
	Pos       components.Position
	Message   string
	Acted     bool
	Waiting   bool
	Emergency bool
	Explored  bool
	Index     int
	Before    float64
	After     float64
}

// Irrigator selects one plant per action through its policy and tops it up
// by a bounded dose.
type Irrigator struct {
	cooldown Cooldown
	amount   float64
	policy   IrrigationPolicy
	cond     Conditions

	history     []IrrigationRecord
	emergencies int
}

// NewIrrigator creates an irrigator using policy for selection.
func NewIrrigator(cfg config.IrrigatorConfig, policy IrrigationPolicy, clock Clock) *Irrigator {
	return &Irrigator{
		cooldown: NewCooldown(seconds(cfg.Delay), clock),
		amount:   cfg.WaterAmount,
		policy:   policy,
	}
}

// SetConditions updates the environment used for the next decision.
func (ir *Irrigator) SetConditions(c Conditions) { ir.cond = c }

// Policy returns the selection policy in use.
func (ir *Irrigator) Policy() IrrigationPolicy { return ir.policy }

// Emergencies returns how many actions targeted a critical plant.
func (ir *Irrigator) Emergencies() int { return ir.emergencies }

// History returns the action log. Callers must not modify it.
func (ir *Irrigator) History() []IrrigationRecord { return ir.history }

// Irrigate runs one decision cycle over plants.
func (ir *Irrigator) Irrigate(plants []*components.Plant) (IrrigationResult, error) {
	if !ir.cooldown.Ready() {
		return IrrigationResult{Message: MsgIrrigatorWaiting, Waiting: true}, nil
	}
	if err := components.ValidatePlants(plants); err != nil {
		return IrrigationResult{}, err
	}

	d, ok := ir.policy.Select(plants, ir.cond)
	if !ok {
		ir.cooldown.Mark()
		return IrrigationResult{Message: MsgNoIrrigation}, nil
	}

	p := plants[d.Index]
	before := p.Water
	dose := math.Min(components.MaxLevel-before, ir.amount)
	p.Water = math.Min(components.MaxLevel, before+dose)

	if d.Emergency {
		ir.emergencies++
	}

	now := ir.cooldown.clock.Now()
	ir.history = append(ir.history, IrrigationRecord{
		Time:        now,
		Timestamp:   now.Format(time.RFC3339Nano),
		X:           p.X,
		Y:           p.Y,
		Before:      before,
		After:       p.Water,
		Emergency:   d.Emergency,
		Emergencies: ir.emergencies,
		Policy:      ir.policy.Name(),
		Need:        d.Need,
		Explored:    d.Explored,
	})

	ir.policy.Learn(d, Outcome{Emergency: d.Emergency, Before: before, After: p.Water})
	ir.cooldown.Mark()

	return IrrigationResult{
		Pos:       p.Pos(),
		Message:   fmt.Sprintf("Irrigated plant at (%d, %d) (from %.1f to %.1f)", p.X, p.Y, before, p.Water),
		Acted:     true,
		Emergency: d.Emergency,
		Explored:  d.Explored,
		Index:     d.Index,
		Before:    before,
		After:     p.Water,
	}, nil
}
