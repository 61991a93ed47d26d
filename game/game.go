// Package game wires plants, agents, climate and telemetry into a runnable
// plot simulation.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/plot/components"
	"github.com/pthm-cable/plot/config"
	"github.com/pthm-cable/plot/systems"
	"github.com/pthm-cable/plot/telemetry"
)

// Messages shown before an agent has produced any output.
const (
	MsgAgentStarting  = "Starting..."
	MsgSensorStarting = "Collecting data..."
)

// Options configures game initialization.
type Options struct {
	Seed           int64
	Config         *config.Config // nil uses config.Cfg()
	LogStats       bool           // emit window stats via slog
	StatsWindowSec float64        // 0 uses telemetry.stats_window
	OutputDir      string         // empty disables file output
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	world       *ecs.World
	agentMapper *ecs.Map3[components.Position, components.Agent, components.Activity]
	agentFilter *ecs.Filter3[components.Position, components.Agent, components.Activity]

	irrigatorEntity ecs.Entity
	harvesterEntity ecs.Entity
	sensorEntity    ecs.Entity

	plants []*components.Plant

	clock    systems.Clock
	simClock *systems.SimClock // nil when running on wall time
	start    time.Time
	climate  *systems.Climate

	irrigator *systems.Irrigator
	harvester *systems.Harvester
	sensor    *systems.Sensor

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool

	// State
	tick        int32
	totals      telemetry.Totals
	temperature float64
	lastReading systems.Snapshot
}

// NewGameWithOptions creates a game from the given options.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	g := &Game{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		seed:          opts.Seed,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	switch cfg.Physics.Clock {
	case config.ClockWall:
		g.clock = systems.WallClock{}
	default:
		g.simClock = systems.NewSimClock()
		g.clock = g.simClock
	}
	g.start = g.clock.Now()

	policy, err := systems.NewPolicy(cfg.Irrigator, g.rng)
	if err != nil {
		return nil, fmt.Errorf("creating irrigation policy: %w", err)
	}
	g.irrigator = systems.NewIrrigator(cfg.Irrigator, policy, g.clock)
	g.harvester = systems.NewHarvester(cfg.Harvester, g.clock)
	g.sensor = systems.NewSensor(cfg.Sensor, g.clock)
	g.climate = systems.NewClimate(cfg.Climate, opts.Seed)

	g.world = ecs.NewWorld()
	g.agentMapper = ecs.NewMap3[components.Position, components.Agent, components.Activity](g.world)
	g.agentFilter = ecs.NewFilter3[components.Position, components.Agent, components.Activity](g.world)
	g.spawnAgents()
	g.plantField()

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Physics.DT)
	g.perfCollector = telemetry.NewPerfCollector(int(g.collector.WindowDurationTicks()))

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	return g, nil
}

// Tick returns the number of simulation steps taken.
func (g *Game) Tick() int32 {
	return g.tick
}

// Plants returns the live plant population. Callers must not retain it
// across Restart.
func (g *Game) Plants() []*components.Plant {
	return g.plants
}

// Totals returns the running counters since the last restart.
func (g *Game) Totals() telemetry.Totals {
	return g.totals
}

// Temperature returns the air temperature used on the last tick.
func (g *Game) Temperature() float64 {
	return g.temperature
}

// LastReading returns the most recent non-waiting sensor snapshot.
func (g *Game) LastReading() systems.Snapshot {
	return g.lastReading
}

// Irrigator returns the irrigation agent.
func (g *Game) Irrigator() *systems.Irrigator {
	return g.irrigator
}

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// AgentView is a read-only copy of an agent entity's components.
type AgentView struct {
	components.Agent
	components.Position
	components.Activity
}

// Agents returns a snapshot of every agent entity.
func (g *Game) Agents() []AgentView {
	var views []AgentView
	query := g.agentFilter.Query()
	for query.Next() {
		pos, agent, act := query.Get()
		views = append(views, AgentView{Agent: *agent, Position: *pos, Activity: *act})
	}
	return views
}

// Agent returns the view of the agent of the given kind.
func (g *Game) Agent(kind components.AgentKind) AgentView {
	var e ecs.Entity
	switch kind {
	case components.KindIrrigator:
		e = g.irrigatorEntity
	case components.KindHarvester:
		e = g.harvesterEntity
	default:
		e = g.sensorEntity
	}
	pos, agent, act := g.agentMapper.Get(e)
	return AgentView{Agent: *agent, Position: *pos, Activity: *act}
}
