// Package telemetry provides field health tracking, run reports and
// experiment output.
package telemetry

import "github.com/pthm-cable/plot/components"

// EventType identifies telemetry events.
type EventType string

const (
	EventIrrigate EventType = "irrigate"
	EventHarvest  EventType = "harvest"
	EventRemove   EventType = "remove"
	EventDeath    EventType = "death"
)

// Event represents a single telemetry event, one JSON line in the event log.
type Event struct {
	Type    EventType `json:"type"`
	Tick    int32     `json:"tick"`
	SimTime float64   `json:"sim_time"`
	X       int       `json:"x"`
	Y       int       `json:"y"`

	// Optional fields depending on event type
	Before    float64 `json:"before,omitempty"` // water before irrigation
	After     float64 `json:"after,omitempty"`  // water after irrigation
	Emergency bool    `json:"emergency,omitempty"`
	Explored  bool    `json:"explored,omitempty"`
	Maturity  float64 `json:"maturity,omitempty"` // at death
}

// NewIrrigateEvent creates an irrigation event.
func NewIrrigateEvent(tick int32, simTime float64, pos components.Position, before, after float64, emergency, explored bool) Event {
	return Event{
		Type:      EventIrrigate,
		Tick:      tick,
		SimTime:   simTime,
		X:         pos.X,
		Y:         pos.Y,
		Before:    before,
		After:     after,
		Emergency: emergency,
		Explored:  explored,
	}
}

// NewHarvestEvent creates a harvest event.
func NewHarvestEvent(tick int32, simTime float64, pos components.Position) Event {
	return Event{Type: EventHarvest, Tick: tick, SimTime: simTime, X: pos.X, Y: pos.Y}
}

// NewRemoveEvent creates a dead-plant removal event.
func NewRemoveEvent(tick int32, simTime float64, pos components.Position) Event {
	return Event{Type: EventRemove, Tick: tick, SimTime: simTime, X: pos.X, Y: pos.Y}
}

// NewDeathEvent creates a death event for a plant that died this tick.
func NewDeathEvent(tick int32, simTime float64, p *components.Plant) Event {
	return Event{
		Type:     EventDeath,
		Tick:     tick,
		SimTime:  simTime,
		X:        p.X,
		Y:        p.Y,
		Maturity: p.Maturity,
	}
}
