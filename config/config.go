// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Physics   PhysicsConfig   `yaml:"physics"`
	Field     FieldConfig     `yaml:"field"`
	Plant     PlantConfig     `yaml:"plant"`
	Irrigator IrrigatorConfig `yaml:"irrigator"`
	Harvester HarvesterConfig `yaml:"harvester"`
	Sensor    SensorConfig    `yaml:"sensor"`
	Climate   ClimateConfig   `yaml:"climate"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Clock sources for agent cooldowns.
const (
	ClockSim  = "sim"
	ClockWall = "wall"
)

// Irrigation policy names.
const (
	PolicyThreshold = "threshold"
	PolicyFuzzy     = "fuzzy"
)

// PhysicsConfig holds tick timing.
type PhysicsConfig struct {
	DT    float64 `yaml:"dt"`    // Seconds per tick
	Clock string  `yaml:"clock"` // "sim" advances by dt per tick, "wall" uses time.Now
}

// FieldConfig describes the grid the plants are planted on.
type FieldConfig struct {
	Plants   int `yaml:"plants"`
	Columns  int `yaml:"columns"`
	OriginX  int `yaml:"origin_x"`
	OriginY  int `yaml:"origin_y"`
	SpacingX int `yaml:"spacing_x"`
	SpacingY int `yaml:"spacing_y"`
}

// Range is a closed interval used for randomized plant traits.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// PlantConfig holds the ranges a plant draws from on creation and reset.
type PlantConfig struct {
	Maturity      Range   `yaml:"maturity"`       // Starting maturity (low range)
	Water         Range   `yaml:"water"`          // Starting water (mid range)
	Growth        Range   `yaml:"growth"`         // Maturity gained per tick
	Consumption   Range   `yaml:"consumption"`    // Water lost per tick
	OverripeLimit Range   `yaml:"overripe_limit"` // Integer ticks at full maturity before death
	CriticalWater float64 `yaml:"critical_water"` // Plant-level critical predicate
}

// IrrigatorConfig holds irrigation agent parameters.
type IrrigatorConfig struct {
	Delay               float64     `yaml:"delay"`                // Seconds between actions
	CriticalThreshold   float64     `yaml:"critical_threshold"`   // Below this = emergency
	PreventiveThreshold float64     `yaml:"preventive_threshold"` // Below this = proactive top-up
	WaterAmount         float64     `yaml:"water_amount"`         // Dose per action
	Policy              string      `yaml:"policy"`               // "threshold" or "fuzzy"
	Fuzzy               FuzzyConfig `yaml:"fuzzy"`
}

// FuzzyConfig holds the fuzzy-inference policy parameters.
type FuzzyConfig struct {
	Activation    float64 `yaml:"activation"`     // Minimum need score to irrigate
	MinActivation float64 `yaml:"min_activation"` // Learning lower bound
	MaxActivation float64 `yaml:"max_activation"` // Learning upper bound
	LearningRate  float64 `yaml:"learning_rate"`  // 0 disables learning
	Explore       bool    `yaml:"explore"`        // Enable epsilon-greedy exploration
	Epsilon       float64 `yaml:"epsilon"`        // Exploration probability
	Resolution    int     `yaml:"resolution"`     // Samples for centroid defuzzification
}

// HarvesterConfig holds harvesting agent parameters.
type HarvesterConfig struct {
	Delay float64 `yaml:"delay"`
}

// SensorConfig holds sensor agent parameters.
type SensorConfig struct {
	Delay                float64 `yaml:"delay"`
	CriticalWaterLevel   float64 `yaml:"critical_water_level"`
	PreventiveWaterLevel float64 `yaml:"preventive_water_level"`
}

// ClimateConfig holds the temperature signal fed to the irrigator.
type ClimateConfig struct {
	BaseTemp  float64 `yaml:"base_temp"` // Celsius
	Amplitude float64 `yaml:"amplitude"` // Diurnal swing
	Period    float64 `yaml:"period"`    // Seconds per simulated day
	Jitter    float64 `yaml:"jitter"`    // Noise amplitude
	NoiseRate float64 `yaml:"noise_rate"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow    float64 `yaml:"stats_window"`    // Seconds per stats window
	ReportInterval float64 `yaml:"report_interval"` // Seconds between periodic reports
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickDuration     time.Duration
	ReportEveryTicks int32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Defaults returns a fresh copy of the embedded defaults with derived values computed.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.ComputeDerived()
	return cfg, nil
}

// Validate rejects configurations the agents cannot run with.
func (c *Config) Validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	switch c.Physics.Clock {
	case ClockSim, ClockWall:
	default:
		return fmt.Errorf("physics.clock: unknown clock %q", c.Physics.Clock)
	}
	if c.Field.Plants < 0 || c.Field.Columns <= 0 {
		return fmt.Errorf("field: need plants >= 0 and columns > 0, got %d/%d", c.Field.Plants, c.Field.Columns)
	}
	for name, r := range map[string]Range{
		"plant.maturity":       c.Plant.Maturity,
		"plant.water":          c.Plant.Water,
		"plant.growth":         c.Plant.Growth,
		"plant.consumption":    c.Plant.Consumption,
		"plant.overripe_limit": c.Plant.OverripeLimit,
	} {
		if r.Min > r.Max {
			return fmt.Errorf("%s: min %v > max %v", name, r.Min, r.Max)
		}
	}
	if c.Plant.Growth.Min <= 0 || c.Plant.Consumption.Min <= 0 {
		return fmt.Errorf("plant: growth and consumption must be positive")
	}
	if c.Plant.Maturity.Min < 0 || c.Plant.Maturity.Max > 100 || c.Plant.Water.Min < 0 || c.Plant.Water.Max > 100 {
		return fmt.Errorf("plant: maturity and water ranges must lie in [0,100]")
	}
	ir := c.Irrigator
	if ir.CriticalThreshold > ir.PreventiveThreshold {
		return fmt.Errorf("irrigator: critical_threshold %v above preventive_threshold %v",
			ir.CriticalThreshold, ir.PreventiveThreshold)
	}
	if ir.WaterAmount <= 0 {
		return fmt.Errorf("irrigator.water_amount must be positive, got %v", ir.WaterAmount)
	}
	switch ir.Policy {
	case PolicyThreshold, PolicyFuzzy:
	default:
		return fmt.Errorf("irrigator.policy: unknown policy %q", ir.Policy)
	}
	if ir.Fuzzy.MinActivation > ir.Fuzzy.MaxActivation {
		return fmt.Errorf("irrigator.fuzzy: min_activation above max_activation")
	}
	if ir.Fuzzy.Epsilon < 0 || ir.Fuzzy.Epsilon > 1 {
		return fmt.Errorf("irrigator.fuzzy.epsilon must be in [0,1], got %v", ir.Fuzzy.Epsilon)
	}
	if c.Sensor.CriticalWaterLevel > c.Sensor.PreventiveWaterLevel {
		return fmt.Errorf("sensor: critical_water_level above preventive_water_level")
	}
	if c.Irrigator.Delay < 0 || c.Harvester.Delay < 0 || c.Sensor.Delay < 0 {
		return fmt.Errorf("agent delays must not be negative")
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
// Call it again after mutating a Config in place.
func (c *Config) ComputeDerived() {
	c.Derived.TickDuration = seconds(c.Physics.DT)

	c.Derived.ReportEveryTicks = 0
	if c.Physics.DT > 0 && c.Telemetry.ReportInterval > 0 {
		c.Derived.ReportEveryTicks = int32(c.Telemetry.ReportInterval / c.Physics.DT)
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
