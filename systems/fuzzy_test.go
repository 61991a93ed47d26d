package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/plot/components"
	"github.com/pthm-cable/plot/config"
)

func TestMembershipFunctions(t *testing.T) {
	tri := Triangle(20, 45, 70)
	shoulder := Trapezoid(negInf, negInf, 15, 35)

	tests := []struct {
		name string
		mf   MembershipFunc
		x    float64
		want float64
	}{
		{"triangle left foot", tri, 20, 0},
		{"triangle rising", tri, 32.5, 0.5},
		{"triangle peak", tri, 45, 1},
		{"triangle falling", tri, 57.5, 0.5},
		{"triangle outside", tri, 80, 0},
		{"shoulder plateau", shoulder, -1000, 1},
		{"shoulder edge", shoulder, 15, 1},
		{"shoulder falling", shoulder, 25, 0.5},
		{"shoulder end", shoulder, 35, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mf(tt.x); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("mf(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestNeedOrdering(t *testing.T) {
	e := NewNeedEngine(101)

	dry := e.Need(10, 25)
	moist := e.Need(45, 25)
	wet := e.Need(90, 25)
	if !(dry > moist && moist > wet) {
		t.Errorf("need should fall with water: dry=%.1f moist=%.1f wet=%.1f", dry, moist, wet)
	}

	hot := e.Need(45, 38)
	cool := e.Need(45, 10)
	if hot <= cool {
		t.Errorf("moist plant should need more water when hot: hot=%.1f cool=%.1f", hot, cool)
	}

	for _, w := range []float64{0, 25, 50, 75, 100} {
		for _, temp := range []float64{-5, 20, 40} {
			n := e.Need(w, temp)
			if n < 0 || n > 100 || math.IsNaN(n) {
				t.Errorf("Need(%v, %v) = %v out of [0,100]", w, temp, n)
			}
		}
	}
}

func TestNeedNoRuleFires(t *testing.T) {
	e := &NeedEngine{
		water:    map[string]MembershipFunc{termDry: Trapezoid(negInf, negInf, 15, 35)},
		rules:    []FuzzyRule{{Water: termDry, Need: termHigh}},
		outputs:  map[string][]float64{termHigh: {0, 1}},
		xs:       []float64{0, 100},
		agg:      make([]float64, 2),
		weighted: make([]float64, 2),
	}
	if got := e.Need(80, 20); got != 0 {
		t.Errorf("Need with no firing rule = %v, want 0", got)
	}
}

func testFuzzyConfig(explore bool) config.IrrigatorConfig {
	cfg := testIrrigatorConfig()
	cfg.Policy = config.PolicyFuzzy
	cfg.Fuzzy.Explore = explore
	return cfg
}

func TestFuzzyPolicyCriticalPreempts(t *testing.T) {
	tests := []struct {
		name   string
		water  []float64
		temp   float64
		wantIx int
	}{
		{"driest of two critical", []float64{30, 20, 10}, 25, 2},
		{"saturated need still picks driest", []float64{14, 1}, 24, 1},
		{"driest wins regardless of order", []float64{1, 14, 50}, 24, 0},
		{"equal water goes to lowest index", []float64{60, 5, 5}, 30, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := NewFuzzyPolicy(testFuzzyConfig(false), nil)
			plants := make([]*components.Plant, len(tt.water))
			for i, w := range tt.water {
				plants[i] = plant(i, 0, 10, w)
			}
			d, ok := fp.Select(plants, Conditions{Temperature: tt.temp})
			if !ok || !d.Emergency {
				t.Fatalf("expected emergency decision, got %+v ok=%v", d, ok)
			}
			if d.Index != tt.wantIx {
				t.Errorf("picked plant %d (water %v), want %d", d.Index, tt.water[d.Index], tt.wantIx)
			}
			if want := fp.engine.Need(tt.water[tt.wantIx], tt.temp); d.Need != want {
				t.Errorf("recorded need %v, want %v", d.Need, want)
			}
		})
	}
}

func TestFuzzyPolicyIdleWhenWet(t *testing.T) {
	fp := NewFuzzyPolicy(testFuzzyConfig(false), nil)
	plants := []*components.Plant{plant(0, 0, 10, 85), plant(1, 0, 10, 95)}
	if d, ok := fp.Select(plants, Conditions{Temperature: 20}); ok {
		t.Errorf("wet field should not be irrigated, got %+v", d)
	}
}

func TestFuzzyPolicyExplorationIsOptIn(t *testing.T) {
	plants := []*components.Plant{
		plant(0, 0, 10, 30),
		plant(1, 0, 10, 35),
		plant(2, 0, 10, 40),
	}
	cond := Conditions{Temperature: 36}

	// exploration disabled: identical inputs always give the same answer
	fp := NewFuzzyPolicy(testFuzzyConfig(false), rand.New(rand.NewSource(1)))
	first, _ := fp.Select(plants, cond)
	for i := 0; i < 50; i++ {
		d, _ := fp.Select(plants, cond)
		if d != first {
			t.Fatalf("decision changed without exploration: %+v vs %+v", d, first)
		}
	}

	// exploration enabled: same seed replays the same sequence
	cfg := testFuzzyConfig(true)
	cfg.Fuzzy.Epsilon = 0.5
	run := func() []Decision {
		fp := NewFuzzyPolicy(cfg, rand.New(rand.NewSource(7)))
		out := make([]Decision, 40)
		for i := range out {
			out[i], _ = fp.Select(plants, cond)
		}
		return out
	}
	a, b := run(), run()
	explored := 0
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seeded exploration diverged at step %d", i)
		}
		if a[i].Explored {
			explored++
		}
	}
	if explored == 0 {
		t.Error("epsilon 0.5 over 40 steps should explore at least once")
	}
}

func TestFuzzyPolicyLearningStaysInBounds(t *testing.T) {
	fp := NewFuzzyPolicy(testFuzzyConfig(false), nil)
	start := fp.Activation()

	fp.Learn(Decision{}, Outcome{Emergency: true})
	if fp.Activation() >= start {
		t.Errorf("emergency should lower activation: %v -> %v", start, fp.Activation())
	}

	for i := 0; i < 1000; i++ {
		fp.Learn(Decision{}, Outcome{Emergency: true})
	}
	if fp.Activation() < 35 {
		t.Errorf("activation %v fell below minimum", fp.Activation())
	}

	for i := 0; i < 1000; i++ {
		fp.Learn(Decision{}, Outcome{})
	}
	if fp.Activation() > 75 {
		t.Errorf("activation %v rose above maximum", fp.Activation())
	}
}

func TestThresholdPolicyDoesNotMutate(t *testing.T) {
	tp := &ThresholdPolicy{Critical: 25, Preventive: 45}
	plants := []*components.Plant{plant(0, 0, 10, 10), plant(1, 0, 10, 30)}
	if _, ok := tp.Select(plants, Conditions{}); !ok {
		t.Fatal("expected a decision")
	}
	if plants[0].Water != 10 || plants[1].Water != 30 {
		t.Error("Select mutated plants")
	}
}
