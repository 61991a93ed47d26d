package main

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/plot/config"
	"github.com/pthm-cable/plot/game"
	"github.com/pthm-cable/plot/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	lastSuccess float64 // success rate from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0, // 10 seconds per window
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastSuccess returns the mean success rate, in [0,1], from the most recent evaluation.
func (fe *FitnessEvaluator) LastSuccess() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSuccess
}

// runResult holds the results from a single simulation run.
type runResult struct {
	totals      telemetry.Totals
	windowStats []telemetry.WindowStats // collected via StatsCallback each window
	err         error
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	success float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run in parallel, one game per goroutine.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(x, s)
			success := successFraction(r.totals)
			quality := fe.computeQuality(r.windowStats)
			results[idx] = seedResult{
				fitness: fe.computeFitness(r, success, quality),
				success: success,
				quality: quality,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalSuccess, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalSuccess += r.success
		totalQuality += r.quality
	}

	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastSuccess = totalSuccess / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run of maxTicks ticks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.err = err
		return result
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		if err := g.UpdateHeadless(); err != nil {
			result.err = fmt.Errorf("seed %d tick %d: %w", seed, g.Tick(), err)
			break
		}
	}

	result.totals = g.Totals()
	return result
}

// copyConfig creates a copy of the base config. Config holds only values,
// so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// successFraction is harvested / (harvested + removed), 0 when nothing was collected.
func successFraction(t telemetry.Totals) float64 {
	rate, ok := t.SuccessRate()
	if !ok {
		return 0
	}
	return rate / 100
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(success × (1.0 + 0.2 × quality))
// Success rate dominates; quality adds up to 20% bonus to separate configs
// with equal success. Failed runs score 0.
func (fe *FitnessEvaluator) computeFitness(r *runResult, success, quality float64) float64 {
	if r.err != nil {
		return 0
	}
	return -(success * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightWater     = 0.40
	qualityWeightCalm      = 0.35
	qualityWeightStability = 0.25

	qualityWarmupWindows = 1 // skip first N windows (warmup)
)

// computeQuality computes field quality ∈ [0, 1] from window stats:
// water held in a comfortable band, few emergency irrigations, and a
// steady living population.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var waterSum, calmSum float64
	living := make([]float64, 0, len(valid))

	for _, w := range valid {
		living = append(living, float64(w.Living))

		// Water health: median near 60, penalised when the dry tail is critical
		waterH := math.Exp(-math.Pow((w.WaterP50-60)/25, 2))
		if w.WaterP10 < 20 {
			waterH *= 0.5
		}
		waterSum += waterH

		calmSum += 1 - w.EmergencyRate
	}

	n := float64(len(valid))
	waterScore := waterSum / n
	calmScore := calmSum / n

	stabilityScore := 0.0
	if len(living) >= 2 {
		mean, std := stat.MeanStdDev(living, nil)
		if mean > 0 {
			c := std / mean
			stabilityScore = math.Exp(-c * c)
		}
	}

	quality := qualityWeightWater*waterScore +
		qualityWeightCalm*calmScore +
		qualityWeightStability*stabilityScore

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
