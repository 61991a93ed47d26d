package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/plot/systems"
	"github.com/pthm-cable/plot/telemetry"
)

// UpdateHeadless runs one simulation step without any presentation.
func (g *Game) UpdateHeadless() error {
	return g.simulationStep()
}

// simulationStep advances the plot by one tick: plants grow and drink,
// then the irrigator, the harvester and the sensor each get one turn.
func (g *Game) simulationStep() error {
	g.perfCollector.StartTick()

	g.temperature = g.climate.Temperature(g.Elapsed())
	g.irrigator.SetConditions(systems.Conditions{Temperature: g.temperature})

	g.perfCollector.StartPhase(telemetry.PhasePlants)
	g.updatePlants()

	g.perfCollector.StartPhase(telemetry.PhaseIrrigate)
	if err := g.updateIrrigator(); err != nil {
		return err
	}

	g.perfCollector.StartPhase(telemetry.PhaseHarvest)
	if err := g.updateHarvester(); err != nil {
		return err
	}

	g.perfCollector.StartPhase(telemetry.PhaseSense)
	if err := g.updateSensor(); err != nil {
		return err
	}

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.periodicReport()

	g.perfCollector.EndTick()

	if g.simClock != nil {
		g.simClock.Advance(g.cfg.Derived.TickDuration)
	}
	return nil
}

// Elapsed returns the time since the game was created, on the game's clock.
func (g *Game) Elapsed() time.Duration {
	return g.clock.Now().Sub(g.start)
}

// simSeconds returns the current tick as simulation seconds.
func (g *Game) simSeconds() float64 {
	return float64(g.tick) * g.cfg.Physics.DT
}

// updatePlants advances every plant and records the ones that died this tick.
func (g *Game) updatePlants() {
	for _, p := range g.plants {
		wasDead := p.Dead
		p.Update()
		if p.Dead && !wasDead {
			g.totals.Deaths++
			g.collector.RecordDeath()
			g.writeEvent(telemetry.NewDeathEvent(g.tick, g.simSeconds(), p))
		}
	}
}

func (g *Game) updateIrrigator() error {
	res, err := g.irrigator.Irrigate(g.plants)
	if err != nil {
		return fmt.Errorf("irrigator: %w", err)
	}

	pos, _, act := g.agentMapper.Get(g.irrigatorEntity)
	act.Message = res.Message
	act.Active = res.Acted
	if !res.Acted {
		return nil
	}

	// Idle and waiting results carry (0,0), so position only follows real actions
	*pos = res.Pos
	act.Irrigations++
	g.totals.Irrigations++
	if res.Emergency {
		act.Emergencies++
		g.totals.Emergencies++
	}
	g.collector.RecordIrrigation(res.Emergency, res.Explored)
	g.writeEvent(telemetry.NewIrrigateEvent(g.tick, g.simSeconds(), res.Pos, res.Before, res.After, res.Emergency, res.Explored))
	return nil
}

func (g *Game) updateHarvester() error {
	pos, _, act := g.agentMapper.Get(g.harvesterEntity)

	res, err := g.harvester.Act(g.plants, *pos)
	if err != nil {
		return fmt.Errorf("harvester: %w", err)
	}

	act.Message = res.Message
	act.Active = res.Acted()
	if !res.Acted() {
		return nil
	}

	*pos = res.Pos
	g.totals.Harvested += res.Harvested
	g.totals.Removed += res.Removed
	act.Harvested += res.Harvested
	act.Removed += res.Removed

	if res.Harvested > 0 {
		g.collector.RecordHarvest()
		g.writeEvent(telemetry.NewHarvestEvent(g.tick, g.simSeconds(), res.Pos))
		slog.Debug("plant harvested", "total", g.totals.Harvested, "x", res.Pos.X, "y", res.Pos.Y)
	} else {
		g.collector.RecordRemoval()
		g.writeEvent(telemetry.NewRemoveEvent(g.tick, g.simSeconds(), res.Pos))
		slog.Debug("dead plant removed", "total", g.totals.Removed, "x", res.Pos.X, "y", res.Pos.Y)
	}
	return nil
}

func (g *Game) updateSensor() error {
	r, err := g.sensor.Sense(g.plants)
	if err != nil {
		return fmt.Errorf("sensor: %w", err)
	}

	_, _, act := g.agentMapper.Get(g.sensorEntity)
	act.Message = r.Message
	act.Active = !r.Waiting
	if !r.Waiting {
		g.lastReading = r.Snapshot
	}
	return nil
}
