package game

import (
	"errors"
	"log/slog"

	"github.com/pthm-cable/plot/components"
	"github.com/pthm-cable/plot/systems"
	"github.com/pthm-cable/plot/telemetry"
)

// Restart replants the whole field and zeroes the run counters.
// Agents keep their positions and cooldowns.
func (g *Game) Restart() {
	g.plantField()
	g.totals = telemetry.Totals{}
	g.lastReading = systems.Snapshot{}

	query := g.agentFilter.Query()
	for query.Next() {
		_, agent, act := query.Get()
		msg := MsgAgentStarting
		if agent.Kind == components.KindSensor {
			msg = MsgSensorStarting
		}
		*act = components.Activity{Message: msg}
	}

	slog.Info("field restarted", "tick", g.tick, "seed", g.seed)
}

// Living returns the number of plants still growing.
func (g *Game) Living() int {
	n := 0
	for _, p := range g.plants {
		if p.IsAlive() {
			n++
		}
	}
	return n
}

// FinalReport summarises the run so far.
func (g *Game) FinalReport() telemetry.FinalReport {
	return telemetry.NewFinalReport(g.Elapsed(), len(g.plants), g.Living(), g.totals)
}

// Unload writes the irrigation history and closes all output.
func (g *Game) Unload() error {
	var errs []error
	if err := g.outputManager.WriteIrrigationHistory(g.irrigator.History()); err != nil {
		errs = append(errs, err)
	}
	if err := g.outputManager.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
