package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/plot/components"
)

// plantField creates the plant population on the configured grid,
// filling rows left to right.
func (g *Game) plantField() {
	f := g.cfg.Field
	g.plants = make([]*components.Plant, f.Plants)
	for i := range g.plants {
		x := f.OriginX + (i%f.Columns)*f.SpacingX
		y := f.OriginY + (i/f.Columns)*f.SpacingY
		g.plants[i] = components.NewPlant(x, y, g.cfg.Plant, g.rng)
	}
}

// spawnAgents creates one entity per agent, all starting at the origin.
func (g *Game) spawnAgents() {
	g.irrigatorEntity = g.spawnAgent(components.KindIrrigator, MsgAgentStarting)
	g.harvesterEntity = g.spawnAgent(components.KindHarvester, MsgAgentStarting)
	g.sensorEntity = g.spawnAgent(components.KindSensor, MsgSensorStarting)
}

func (g *Game) spawnAgent(kind components.AgentKind, msg string) ecs.Entity {
	pos := components.Position{}
	agent := components.Agent{Kind: kind, Name: kind.String()}
	act := components.Activity{Message: msg}
	return g.agentMapper.NewEntity(&pos, &agent, &act)
}
