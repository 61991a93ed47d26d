package systems

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MembershipFunc maps a crisp value to a degree of membership in [0,1].
type MembershipFunc func(x float64) float64

// Trapezoid returns a trapezoidal membership function rising on [a,b],
// flat on [b,c] and falling on [c,d]. Pass ±Inf for open shoulders.
func Trapezoid(a, b, c, d float64) MembershipFunc {
	return func(x float64) float64 {
		switch {
		case x < a || x > d:
			return 0
		case x >= b && x <= c:
			return 1
		case x < b:
			return (x - a) / (b - a)
		default:
			return (d - x) / (d - c)
		}
	}
}

// Triangle returns a triangular membership function peaking at b.
func Triangle(a, b, c float64) MembershipFunc {
	return Trapezoid(a, b, b, c)
}

var (
	negInf = math.Inf(-1)
	posInf = math.Inf(1)
)

// Linguistic terms.
const (
	termDry    = "dry"
	termMoist  = "moist"
	termWet    = "wet"
	termCool   = "cool"
	termMild   = "mild"
	termHot    = "hot"
	termLow    = "low"
	termMedium = "medium"
	termHigh   = "high"
)

// FuzzyRule is one IF water AND temperature THEN need clause.
// An empty antecedent term matches any value.
type FuzzyRule struct {
	Water string
	Temp  string
	Need  string
}

// DefaultNeedRules is the rule base used by the fuzzy irrigation policy.
var DefaultNeedRules = []FuzzyRule{
	{Water: termDry, Need: termHigh},
	{Water: termMoist, Temp: termHot, Need: termHigh},
	{Water: termMoist, Temp: termMild, Need: termMedium},
	{Water: termMoist, Temp: termCool, Need: termLow},
	{Water: termWet, Need: termLow},
}

// NeedEngine is a Mamdani inference engine scoring irrigation need in
// [0,100] from a plant's water level and the air temperature.
// Rules use min for AND, max for aggregation, and the output is the
// centroid of the aggregated set sampled over [0,100].
type NeedEngine struct {
	water map[string]MembershipFunc
	temp  map[string]MembershipFunc
	rules []FuzzyRule

	xs      []float64            // output universe samples
	outputs map[string][]float64 // output term memberships at xs

	// scratch buffers for Need
	agg      []float64
	weighted []float64
}

// NewNeedEngine builds the engine with the default terms and rules.
// resolution is the number of centroid samples (minimum 2).
func NewNeedEngine(resolution int) *NeedEngine {
	if resolution < 2 {
		resolution = 101
	}

	e := &NeedEngine{
		water: map[string]MembershipFunc{
			termDry:   Trapezoid(negInf, negInf, 15, 35),
			termMoist: Triangle(20, 45, 70),
			termWet:   Trapezoid(55, 75, posInf, posInf),
		},
		temp: map[string]MembershipFunc{
			termCool: Trapezoid(negInf, negInf, 15, 22),
			termMild: Triangle(18, 25, 32),
			termHot:  Trapezoid(28, 35, posInf, posInf),
		},
		rules:    DefaultNeedRules,
		xs:       make([]float64, resolution),
		outputs:  make(map[string][]float64, 3),
		agg:      make([]float64, resolution),
		weighted: make([]float64, resolution),
	}
	floats.Span(e.xs, 0, 100)

	needTerms := map[string]MembershipFunc{
		termLow:    Trapezoid(negInf, negInf, 20, 40),
		termMedium: Triangle(30, 50, 70),
		termHigh:   Trapezoid(60, 80, posInf, posInf),
	}
	for name, mf := range needTerms {
		samples := make([]float64, resolution)
		for i, x := range e.xs {
			samples[i] = mf(x)
		}
		e.outputs[name] = samples
	}

	return e
}

// Need returns the defuzzified irrigation need for the given inputs.
// Returns 0 when no rule fires.
func (e *NeedEngine) Need(water, temp float64) float64 {
	for i := range e.agg {
		e.agg[i] = 0
	}

	fired := false
	for _, r := range e.rules {
		strength := 1.0
		if r.Water != "" {
			strength = math.Min(strength, e.water[r.Water](water))
		}
		if r.Temp != "" {
			strength = math.Min(strength, e.temp[r.Temp](temp))
		}
		if strength <= 0 {
			continue
		}
		fired = true

		out := e.outputs[r.Need]
		for i, m := range out {
			clipped := math.Min(strength, m)
			if clipped > e.agg[i] {
				e.agg[i] = clipped
			}
		}
	}
	if !fired {
		return 0
	}

	area := floats.Sum(e.agg)
	if area == 0 {
		return 0
	}
	floats.MulTo(e.weighted, e.agg, e.xs)
	return floats.Sum(e.weighted) / area
}
