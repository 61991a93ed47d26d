package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pthm-cable/plot/components"
	"github.com/pthm-cable/plot/config"
	"github.com/pthm-cable/plot/telemetry"
)

func newTestGame(t *testing.T, seed int64, mutate func(*config.Config), opts Options) *Game {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if mutate != nil {
		mutate(cfg)
		cfg.ComputeDerived()
	}
	opts.Seed = seed
	opts.Config = cfg
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func run(t *testing.T, g *Game, ticks int) {
	t.Helper()
	for i := 0; i < ticks; i++ {
		if err := g.UpdateHeadless(); err != nil {
			t.Fatalf("tick %d: %v", g.Tick(), err)
		}
	}
}

func TestFieldLayout(t *testing.T) {
	g := newTestGame(t, 1, nil, Options{})

	plants := g.Plants()
	if len(plants) != 20 {
		t.Fatalf("plants = %d, want 20", len(plants))
	}
	for i, p := range plants {
		wantX, wantY := 80+(i%5)*130, 80+(i/5)*110
		if p.X != wantX || p.Y != wantY {
			t.Errorf("plant %d at (%d, %d), want (%d, %d)", i, p.X, p.Y, wantX, wantY)
		}
		if p.Maturity < 0 || p.Maturity > 20 || p.Water < 40 || p.Water > 70 {
			t.Errorf("plant %d initial state out of range: %v", i, p)
		}
	}

	agents := g.Agents()
	if len(agents) != 3 {
		t.Fatalf("agents = %d, want 3", len(agents))
	}
	for _, a := range agents {
		if a.Position != (components.Position{}) {
			t.Errorf("%s should start at the origin, got %+v", a.Name, a.Position)
		}
	}
	if msg := g.Agent(components.KindSensor).Message; msg != MsgSensorStarting {
		t.Errorf("sensor message = %q", msg)
	}
}

func TestRunInvariants(t *testing.T) {
	g := newTestGame(t, 7, nil, Options{})

	slots := make(map[components.Position]bool)
	for _, p := range g.Plants() {
		slots[p.Pos()] = true
	}

	for i := 0; i < 3000; i++ {
		run(t, g, 1)

		for _, p := range g.Plants() {
			if p.Water < 0 || p.Water > components.MaxLevel {
				t.Fatalf("tick %d: water %v out of bounds", g.Tick(), p.Water)
			}
			if p.Maturity < 0 || p.Maturity > components.MaxLevel {
				t.Fatalf("tick %d: maturity %v out of bounds", g.Tick(), p.Maturity)
			}
		}

		for _, kind := range []components.AgentKind{components.KindIrrigator, components.KindHarvester} {
			pos := g.Agent(kind).Position
			if pos != (components.Position{}) && !slots[pos] {
				t.Fatalf("tick %d: %s at %+v, not a plant slot", g.Tick(), kind, pos)
			}
		}
	}

	totals := g.Totals()
	if totals.Irrigations == 0 || totals.Harvested == 0 {
		t.Errorf("expected irrigation and harvest activity over 3000 ticks, got %+v", totals)
	}

	irr := g.Agent(components.KindIrrigator)
	if irr.Irrigations != totals.Irrigations || irr.Emergencies != totals.Emergencies {
		t.Errorf("irrigator activity %+v does not match totals %+v", irr.Activity, totals)
	}
	if irr.Emergencies != g.Irrigator().Emergencies() {
		t.Errorf("irrigator counted %d emergencies, agent entity %d", g.Irrigator().Emergencies(), irr.Emergencies)
	}
	if len(g.Irrigator().History()) != totals.Irrigations {
		t.Errorf("history len %d, irrigations %d", len(g.Irrigator().History()), totals.Irrigations)
	}

	h := g.Agent(components.KindHarvester)
	if h.Harvested != totals.Harvested || h.Removed != totals.Removed {
		t.Errorf("harvester activity %+v does not match totals %+v", h.Activity, totals)
	}
}

func TestDeterministicPerSeed(t *testing.T) {
	a := newTestGame(t, 99, nil, Options{})
	b := newTestGame(t, 99, nil, Options{})
	run(t, a, 1500)
	run(t, b, 1500)

	if diff := cmp.Diff(a.Totals(), b.Totals()); diff != "" {
		t.Errorf("totals diverged (-a +b):\n%s", diff)
	}
	for i := range a.Plants() {
		pa, pb := a.Plants()[i], b.Plants()[i]
		if pa.Water != pb.Water || pa.Maturity != pb.Maturity || pa.Dead != pb.Dead {
			t.Fatalf("plant %d diverged: %v vs %v", i, pa, pb)
		}
	}
}

func TestFuzzyPolicyGame(t *testing.T) {
	g := newTestGame(t, 3, func(c *config.Config) {
		c.Irrigator.Policy = config.PolicyFuzzy
		c.Irrigator.Fuzzy.Explore = true
	}, Options{})
	run(t, g, 2000)

	if g.Totals().Irrigations == 0 {
		t.Error("fuzzy policy never irrigated")
	}
	for _, rec := range g.Irrigator().History() {
		if rec.Policy != config.PolicyFuzzy {
			t.Fatalf("history record from policy %q", rec.Policy)
		}
	}
}

func TestStatsCallback(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newTestGame(t, 5, nil, Options{
		StatsWindowSec: 1,
		StatsCallback:  func(s telemetry.WindowStats) { windows = append(windows, s) },
	})
	run(t, g, 36)

	if len(windows) != 3 {
		t.Fatalf("windows = %d, want 3", len(windows))
	}
	last := windows[2]
	if last.Living+last.Dead > 20 {
		t.Errorf("window counts exceed field size: %+v", last)
	}
}

func TestRestart(t *testing.T) {
	g := newTestGame(t, 11, nil, Options{})
	run(t, g, 1500)
	if g.Totals() == (telemetry.Totals{}) {
		t.Fatal("expected activity before restart")
	}
	irrPos := g.Agent(components.KindIrrigator).Position

	g.Restart()

	if g.Totals() != (telemetry.Totals{}) {
		t.Errorf("totals not reset: %+v", g.Totals())
	}
	if g.Living() != 20 {
		t.Errorf("living = %d, want 20 after restart", g.Living())
	}
	irr := g.Agent(components.KindIrrigator)
	if irr.Position != irrPos {
		t.Error("restart moved the irrigator")
	}
	if irr.Message != MsgAgentStarting || irr.Irrigations != 0 {
		t.Errorf("irrigator activity not reset: %+v", irr.Activity)
	}

	run(t, g, 10)
}

func TestFinalReport(t *testing.T) {
	g := newTestGame(t, 13, nil, Options{})
	r := g.FinalReport()
	if r.Graded || r.Plants != 20 || r.Living != 20 {
		t.Errorf("fresh report = %+v", r)
	}

	run(t, g, 3000)
	r = g.FinalReport()
	tot := g.Totals()
	if tot.Harvested+tot.Removed > 0 && !r.Graded {
		t.Error("report should be graded once plants were collected")
	}
	if r.Elapsed <= 0 {
		t.Error("elapsed should advance with the simulated clock")
	}
}

func TestOutputDir(t *testing.T) {
	dir := t.TempDir()
	g := newTestGame(t, 17, nil, Options{OutputDir: dir})
	run(t, g, 1200)
	if err := g.Unload(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"config.yaml", "telemetry.csv", "perf.csv", "irrigation.csv", "events.jsonl.zst"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	events, err := telemetry.ReadEventLog(filepath.Join(dir, "events.jsonl.zst"))
	if err != nil {
		t.Fatal(err)
	}
	tot := g.Totals()
	want := tot.Irrigations + tot.Harvested + tot.Removed + tot.Deaths
	if len(events) != want {
		t.Errorf("event log has %d events, want %d", len(events), want)
	}
}

func TestHarvesterActiveOnRemoval(t *testing.T) {
	g := newTestGame(t, 19, func(c *config.Config) {
		c.Field.Plants = 1
	}, Options{})
	p := g.Plants()[0]
	p.Dead = true
	p.Water = 0

	run(t, g, 1)

	h := g.Agent(components.KindHarvester)
	if h.Removed != 1 || h.Harvested != 0 {
		t.Fatalf("harvester activity = %+v, want one removal", h.Activity)
	}
	if !h.Active {
		t.Error("removing a dead plant should mark the harvester active")
	}
	if h.Position != p.Pos() {
		t.Errorf("harvester at %+v, want %+v", h.Position, p.Pos())
	}
}
