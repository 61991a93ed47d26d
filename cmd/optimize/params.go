package main

import (
	"math"

	"github.com/pthm-cable/plot/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Irrigation thresholds and dose
			{Name: "critical_threshold", Path: "irrigator.critical_threshold", Min: 5, Max: 40, Default: 25},
			{Name: "preventive_threshold", Path: "irrigator.preventive_threshold", Min: 20, Max: 80, Default: 45},
			{Name: "water_amount", Path: "irrigator.water_amount", Min: 10, Max: 100, Default: 70},
			// Agent pacing
			{Name: "irrigator_delay", Path: "irrigator.delay", Min: 0.05, Max: 1.5, Default: 0.3},
			{Name: "harvester_delay", Path: "harvester.delay", Min: 0, Max: 1.0, Default: 0},
			// Fuzzy policy (ignored by the threshold policy)
			{Name: "fuzzy_activation", Path: "irrigator.fuzzy.activation", Min: 30, Max: 80, Default: 55},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Max(spec.Min, math.Min(spec.Max, v[i]))
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// The preventive threshold is raised to the critical one when the search
// proposes them inverted, so the result always validates.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	ir := &cfg.Irrigator
	ir.CriticalThreshold = clamped[0]
	ir.PreventiveThreshold = math.Max(clamped[1], clamped[0])
	ir.WaterAmount = clamped[2]
	ir.Delay = clamped[3]
	cfg.Harvester.Delay = clamped[4]

	ir.Fuzzy.Activation = clamped[5]
	if ir.Fuzzy.MinActivation > ir.Fuzzy.Activation {
		ir.Fuzzy.MinActivation = ir.Fuzzy.Activation
	}
	if ir.Fuzzy.MaxActivation < ir.Fuzzy.Activation {
		ir.Fuzzy.MaxActivation = ir.Fuzzy.Activation
	}

	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Irrigator.CriticalThreshold,
		cfg.Irrigator.PreventiveThreshold,
		cfg.Irrigator.WaterAmount,
		cfg.Irrigator.Delay,
		cfg.Harvester.Delay,
		cfg.Irrigator.Fuzzy.Activation,
	}
}
