package systems

import (
	"fmt"

	"github.com/pthm-cable/plot/components"
	"github.com/pthm-cable/plot/config"
)

// Harvester messages.
const (
	MsgHarvesterWaiting = "Waiting for next cycle..."
	MsgNoHarvest        = "No action possible"
)

// HarvestResult is the output of one Act call.
// Exactly one of Harvested and Removed is 1 when the harvester acted.
type HarvestResult struct {
	Pos       components.Position
	Message   string
	Harvested int
	Removed   int
	Waiting   bool
	Index     int // -1 when no plant was touched
}

// Acted reports whether a plant was collected.
func (r HarvestResult) Acted() bool { return r.Harvested+r.Removed > 0 }

// Harvester collects the nearest mature plant, or failing that the nearest
// dead one, and replants the slot.
type Harvester struct {
	cooldown Cooldown
}

// NewHarvester creates a harvester from config.
func NewHarvester(cfg config.HarvesterConfig, clock Clock) *Harvester {
	return &Harvester{cooldown: NewCooldown(seconds(cfg.Delay), clock)}
}

// Act runs one harvest cycle from the agent's current position.
func (h *Harvester) Act(plants []*components.Plant, current components.Position) (HarvestResult, error) {
	if !h.cooldown.Ready() {
		return HarvestResult{Pos: current, Message: MsgHarvesterWaiting, Waiting: true, Index: -1}, nil
	}
	if err := components.ValidatePlants(plants); err != nil {
		return HarvestResult{}, err
	}

	matureIdx, deadIdx := -1, -1
	var matureDist, deadDist int

	for i, p := range plants {
		if p.Collected {
			continue
		}
		d := current.DistSq(p.Pos())
		switch {
		case p.Dead:
			if deadIdx < 0 || d < deadDist {
				deadIdx, deadDist = i, d
			}
		case p.Maturity >= components.MaxLevel:
			if matureIdx < 0 || d < matureDist {
				matureIdx, matureDist = i, d
			}
		}
	}

	h.cooldown.Mark()

	// Mature plants strictly preempt dead ones
	idx, harvest := matureIdx, true
	if idx < 0 {
		idx, harvest = deadIdx, false
	}
	if idx < 0 {
		return HarvestResult{Pos: current, Message: MsgNoHarvest, Index: -1}, nil
	}

	p := plants[idx]
	p.Collected = true
	pos := p.Pos()
	p.Reset()

	if harvest {
		return HarvestResult{
			Pos:       pos,
			Message:   fmt.Sprintf("Harvested and replanted at (%d, %d)", pos.X, pos.Y),
			Harvested: 1,
			Index:     idx,
		}, nil
	}
	return HarvestResult{
		Pos:     pos,
		Message: fmt.Sprintf("Removed dead plant at (%d, %d)", pos.X, pos.Y),
		Removed: 1,
		Index:   idx,
	}, nil
}
