package systems

import (
	"errors"
	"testing"
	"time"

	"github.com/pthm-cable/plot/components"
	"github.com/pthm-cable/plot/config"
)

func deadPlant(x, y int) *components.Plant {
	p := plant(x, y, 40, 0)
	p.Dead = true
	return p
}

func TestHarvesterMaturePreemptsDead(t *testing.T) {
	h := NewHarvester(config.HarvesterConfig{}, NewSimClock())
	plants := []*components.Plant{
		deadPlant(2, 0),        // d² = 4
		plant(100, 0, 100, 50), // d² = 10000
	}

	res, err := h.Act(plants, components.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Harvested != 1 || res.Removed != 0 || res.Index != 1 {
		t.Fatalf("expected mature plant harvested, got %+v", res)
	}
	if res.Pos != (components.Position{X: 100, Y: 0}) {
		t.Errorf("pos = %+v", res.Pos)
	}
	if res.Message != "Harvested and replanted at (100, 0)" {
		t.Errorf("message = %q", res.Message)
	}
	if !plants[0].Dead {
		t.Error("dead plant should be untouched")
	}
}

func TestHarvesterNearestSelection(t *testing.T) {
	tests := []struct {
		name    string
		plants  []*components.Plant
		from    components.Position
		wantIdx int
		harvest bool
	}{
		{
			name: "nearest mature",
			plants: []*components.Plant{
				plant(300, 300, 100, 50),
				plant(90, 90, 100, 50),
				plant(200, 80, 100, 50),
			},
			from:    components.Position{X: 80, Y: 80},
			wantIdx: 1,
			harvest: true,
		},
		{
			name: "nearest dead",
			plants: []*components.Plant{
				deadPlant(500, 500),
				plant(10, 10, 50, 50),
				deadPlant(20, 20),
			},
			from:    components.Position{},
			wantIdx: 2,
		},
		{
			name: "equidistant goes to first",
			plants: []*components.Plant{
				plant(10, 0, 100, 50),
				plant(0, 10, 100, 50),
			},
			from:    components.Position{},
			wantIdx: 0,
			harvest: true,
		},
		{
			name: "collected plants ignored",
			plants: func() []*components.Plant {
				c := plant(1, 1, 100, 50)
				c.Collected = true
				return []*components.Plant{c, plant(50, 50, 100, 50)}
			}(),
			from:    components.Position{},
			wantIdx: 1,
			harvest: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHarvester(config.HarvesterConfig{}, NewSimClock())
			res, err := h.Act(tt.plants, tt.from)
			if err != nil {
				t.Fatal(err)
			}
			if res.Index != tt.wantIdx {
				t.Errorf("index = %d, want %d", res.Index, tt.wantIdx)
			}
			if got := res.Harvested == 1; got != tt.harvest {
				t.Errorf("harvested = %v, want %v", got, tt.harvest)
			}
			if res.Harvested+res.Removed != 1 {
				t.Errorf("exactly one counter should be set, got %+v", res)
			}
		})
	}
}

func TestHarvesterRecyclesSlot(t *testing.T) {
	h := NewHarvester(config.HarvesterConfig{}, NewSimClock())
	p := deadPlant(40, 50)

	res, err := h.Act([]*components.Plant{p}, components.Position{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Removed != 1 || res.Message != "Removed dead plant at (40, 50)" {
		t.Fatalf("unexpected result %+v", res)
	}
	if p.Dead || p.Collected {
		t.Error("slot should be replanted with a live plant")
	}
	if p.X != 40 || p.Y != 50 {
		t.Error("replanting moved the plant")
	}
}

func TestHarvesterIdleKeepsPosition(t *testing.T) {
	h := NewHarvester(config.HarvesterConfig{}, NewSimClock())
	here := components.Position{X: 210, Y: 190}
	plants := []*components.Plant{plant(0, 0, 50, 50)}

	res, err := h.Act(plants, here)
	if err != nil {
		t.Fatal(err)
	}
	if res.Acted() || res.Message != MsgNoHarvest || res.Pos != here || res.Index != -1 {
		t.Errorf("idle result = %+v", res)
	}
}

func TestHarvesterWaiting(t *testing.T) {
	clock := NewSimClock()
	h := NewHarvester(config.HarvesterConfig{Delay: 1}, clock)
	plants := []*components.Plant{plant(0, 0, 100, 50), plant(5, 5, 100, 50)}

	if res, _ := h.Act(plants, components.Position{}); !res.Acted() {
		t.Fatal("first cycle should harvest")
	}

	clock.Advance(500 * time.Millisecond)
	here := components.Position{X: 3, Y: 3}
	res, err := h.Act(plants, here)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Waiting || res.Acted() || res.Pos != here {
		t.Errorf("gated result = %+v", res)
	}
	if plants[1].Collected || plants[1].Maturity != 100 {
		t.Error("gated call mutated plants")
	}
}

func TestHarvesterInvalidPlant(t *testing.T) {
	h := NewHarvester(config.HarvesterConfig{}, NewSimClock())
	bad := plant(0, 0, -5, 50)
	_, err := h.Act([]*components.Plant{bad}, components.Position{})

	var ipe *components.InvalidPlantError
	if !errors.As(err, &ipe) {
		t.Fatalf("expected InvalidPlantError, got %v", err)
	}
}
