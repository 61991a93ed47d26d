package systems

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/plot/components"
	"github.com/pthm-cable/plot/config"
)

// Conditions is the environment an irrigation decision is made in.
type Conditions struct {
	Temperature float64 // Celsius
}

// Decision is a policy's choice of plant to irrigate.
type Decision struct {
	Index     int     // into the plant slice passed to Select
	Emergency bool    // plant was below the critical threshold
	Need      float64 // policy-specific urgency score
	Explored  bool    // chosen by exploration rather than by score
}

// Outcome is the feedback an irrigator reports after acting on a Decision.
type Outcome struct {
	Emergency bool
	Before    float64
	After     float64
}

// IrrigationPolicy decides which plant, if any, receives water.
// Select must not mutate plants. It returns false when no plant qualifies.
type IrrigationPolicy interface {
	Name() string
	Select(plants []*components.Plant, cond Conditions) (Decision, bool)
	Learn(d Decision, o Outcome)
}

// NewPolicy builds the policy named in cfg. rng is only used by policies
// with exploration enabled.
func NewPolicy(cfg config.IrrigatorConfig, rng *rand.Rand) (IrrigationPolicy, error) {
	switch cfg.Policy {
	case config.PolicyThreshold, "":
		return &ThresholdPolicy{
			Critical:   cfg.CriticalThreshold,
			Preventive: cfg.PreventiveThreshold,
		}, nil
	case config.PolicyFuzzy:
		return NewFuzzyPolicy(cfg, rng), nil
	default:
		return nil, fmt.Errorf("unknown irrigation policy %q", cfg.Policy)
	}
}

// ThresholdPolicy picks the driest critical plant, else the driest
// preventive plant. Ties go to the lowest index.
type ThresholdPolicy struct {
	Critical   float64
	Preventive float64
}

// Name implements IrrigationPolicy.
func (tp *ThresholdPolicy) Name() string { return config.PolicyThreshold }

// Select implements IrrigationPolicy.
func (tp *ThresholdPolicy) Select(plants []*components.Plant, _ Conditions) (Decision, bool) {
	critIdx, prevIdx := -1, -1

	for i, p := range plants {
		if !p.IsAlive() {
			continue
		}
		switch {
		case p.Water < tp.Critical:
			if critIdx < 0 || p.Water < plants[critIdx].Water {
				critIdx = i
			}
		case p.Water < tp.Preventive:
			if prevIdx < 0 || p.Water < plants[prevIdx].Water {
				prevIdx = i
			}
		}
	}

	if critIdx >= 0 {
		return Decision{Index: critIdx, Emergency: true, Need: tp.Critical - plants[critIdx].Water}, true
	}
	if prevIdx >= 0 {
		return Decision{Index: prevIdx, Need: tp.Preventive - plants[prevIdx].Water}, true
	}
	return Decision{}, false
}

// Learn implements IrrigationPolicy. The threshold policy does not adapt.
func (tp *ThresholdPolicy) Learn(Decision, Outcome) {}

// FuzzyPolicy scores every living plant with a NeedEngine and irrigates
// the neediest one whose score reaches the activation level. Plants below
// the critical threshold always preempt the rest.
type FuzzyPolicy struct {
	engine   *NeedEngine
	critical float64

	activation    float64
	minActivation float64
	maxActivation float64
	learningRate  float64

	explore bool
	epsilon float64
	rng     *rand.Rand

	eligible []int
}

// NewFuzzyPolicy creates a fuzzy policy from config. Exploration stays off
// unless cfg.Fuzzy.Explore is set and rng is non-nil.
func NewFuzzyPolicy(cfg config.IrrigatorConfig, rng *rand.Rand) *FuzzyPolicy {
	fc := cfg.Fuzzy
	return &FuzzyPolicy{
		engine:        NewNeedEngine(fc.Resolution),
		critical:      cfg.CriticalThreshold,
		activation:    fc.Activation,
		minActivation: fc.MinActivation,
		maxActivation: fc.MaxActivation,
		learningRate:  fc.LearningRate,
		explore:       fc.Explore && rng != nil,
		epsilon:       fc.Epsilon,
		rng:           rng,
	}
}

// Name implements IrrigationPolicy.
func (fp *FuzzyPolicy) Name() string { return config.PolicyFuzzy }

// Activation returns the current activation level.
func (fp *FuzzyPolicy) Activation() float64 { return fp.activation }

// Select implements IrrigationPolicy.
func (fp *FuzzyPolicy) Select(plants []*components.Plant, cond Conditions) (Decision, bool) {
	critIdx, bestIdx := -1, -1
	var critNeed, bestNeed float64
	fp.eligible = fp.eligible[:0]

	for i, p := range plants {
		if !p.IsAlive() {
			continue
		}
		need := fp.engine.Need(p.Water, cond.Temperature)

		// Emergencies go to the driest plant; need saturates when very dry
		if p.Water < fp.critical {
			if critIdx < 0 || p.Water < plants[critIdx].Water {
				critIdx, critNeed = i, need
			}
			continue
		}
		if need < fp.activation {
			continue
		}
		fp.eligible = append(fp.eligible, i)
		if bestIdx < 0 || need > bestNeed {
			bestIdx, bestNeed = i, need
		}
	}

	if critIdx >= 0 {
		return Decision{Index: critIdx, Emergency: true, Need: critNeed}, true
	}
	if bestIdx < 0 {
		return Decision{}, false
	}

	if fp.explore && len(fp.eligible) > 1 && fp.rng.Float64() < fp.epsilon {
		idx := fp.eligible[fp.rng.Intn(len(fp.eligible))]
		return Decision{Index: idx, Need: fp.engine.Need(plants[idx].Water, cond.Temperature), Explored: true}, true
	}
	return Decision{Index: bestIdx, Need: bestNeed}, true
}

// Learn implements IrrigationPolicy. An emergency means the policy waited
// too long, so the activation level moves toward its minimum; a routine
// top-up moves it toward its maximum.
func (fp *FuzzyPolicy) Learn(_ Decision, o Outcome) {
	if fp.learningRate <= 0 {
		return
	}
	if o.Emergency {
		fp.activation -= fp.learningRate * (fp.activation - fp.minActivation)
	} else {
		fp.activation += fp.learningRate * (fp.maxActivation - fp.activation)
	}
}
