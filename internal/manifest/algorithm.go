package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/space4ai/placement-optimizer/internal/logx"
	"github.com/space4ai/placement-optimizer/internal/search/driver"
	"github.com/space4ai/placement-optimizer/internal/search/greedy"
	"github.com/space4ai/placement-optimizer/internal/search/heuristic"
)

// AlgorithmConfig is the parsed, validated form of the algorithm
// configuration JSON (§6.2): which methods run and with what budgets.
type AlgorithmConfig struct {
	RG RGConfig
	BS BSConfig

	HasHeuristic bool
	Engine       driver.Engine
	Heuristic    heuristic.Options

	Workers int

	Seed         int64
	VerboseLevel logx.Level
}

// RGConfig holds the mandatory Randomized Greedy budget (§6.2, §4.5).
type RGConfig struct {
	K                   int
	MaxSteps            int
	MaxTime             time.Duration
	StartingPointNumber int
}

// BSConfig holds the mandatory binary-search maximizer budget (§6.2, §4.8).
type BSConfig struct {
	UpperBoundLambda float64
	Epsilon          float64
}

// LoadAlgorithmConfig reads and validates the algorithm configuration JSON
// at path (§6.2, §7 "Configuration error"): RG and BS are mandatory, at
// most one of LS/TS/SA/GA may additionally be present.
func LoadAlgorithmConfig(path string) (AlgorithmConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AlgorithmConfig{}, fmt.Errorf("reading algorithm configuration: %w", err)
	}
	var raw rawAlgorithmConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return AlgorithmConfig{}, fmt.Errorf("%s: parsing algorithm configuration: %w", path, err)
	}
	if err := validate.Struct(&raw); err != nil {
		return AlgorithmConfig{}, fmt.Errorf("%s: invalid algorithm configuration: %w", path, err)
	}

	cfg := AlgorithmConfig{
		Seed:         raw.Seed,
		VerboseLevel: logx.Level(raw.VerboseLevel),
		Workers:      1,
	}

	rg, ok := raw.Methods["RG"]
	if !ok {
		return AlgorithmConfig{}, fmt.Errorf("%s: Methods.RG is mandatory", path)
	}
	cfg.RG = RGConfig{
		K:                   defaultInt(rg.StartingPointNumber, 10),
		MaxSteps:            defaultInt(rg.Iterations, 1000),
		MaxTime:             durationOf(rg.Duration),
		StartingPointNumber: defaultInt(rg.StartingPointNumber, 1),
	}

	bs, ok := raw.Methods["BS"]
	if !ok {
		return AlgorithmConfig{}, fmt.Errorf("%s: Methods.BS is mandatory", path)
	}
	if bs.UpperBoundLambda <= 0 || bs.Epsilon <= 0 {
		return AlgorithmConfig{}, fmt.Errorf("%s: Methods.BS requires upperBoundLambda and epsilon > 0", path)
	}
	cfg.BS = BSConfig{UpperBoundLambda: bs.UpperBoundLambda, Epsilon: bs.Epsilon}

	heuristics := []string{"LS", "TS", "SA", "GA"}
	seen := 0
	for _, name := range heuristics {
		m, ok := raw.Methods[name]
		if !ok {
			continue
		}
		seen++
		if seen > 1 {
			return AlgorithmConfig{}, fmt.Errorf("%s: at most one of LS/TS/SA/GA may be configured", path)
		}
		cfg.HasHeuristic = true
		cfg.Heuristic = heuristic.Options{
			MaxSteps:           defaultInt(m.Iterations, 1000),
			MaxTime:            durationOf(m.Duration),
			MinScore:           m.MinScore,
			TabuTenure:         m.TabuSize,
			InitialTemperature: m.TempBegin,
			CoolingRate:        coolingRateOf(m),
			MinEnergy:          m.MinEnergy,
			PopulationSize:     defaultInt(m.StartingPointNumber, 20),
			CrossoverRate:      m.CrossoverRate,
			MutationRate:       m.MutationRate,
			Elitism:            1,
			MinFitness:         m.MinFitness,
		}
		switch name {
		case "LS":
			cfg.Engine = driver.EngineLocalSearch
		case "TS":
			cfg.Engine = driver.EngineTabuSearch
		case "SA":
			cfg.Engine = driver.EngineSimulatedAnnealing
		case "GA":
			cfg.Engine = driver.EngineGeneticAlgorithm
		}
	}

	return cfg, nil
}

// coolingRateOf translates the manifest's additive/multiplicative schedule
// constant into the multiplicative per-step rate SimulatedAnnealing
// expects; a linear schedule's constant is treated as a small per-step
// multiplicative decay since the engine only implements geometric cooling.
func coolingRateOf(m rawAlgorithmMethod) float64 {
	if m.ScheduleConstant <= 0 {
		return 0.995
	}
	if m.Schedule == "linear" {
		return 1 - m.ScheduleConstant
	}
	return m.ScheduleConstant
}

func defaultInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func durationOf(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// GreedyOptions adapts RGConfig into greedy.Options, filling in the seed.
func (c AlgorithmConfig) GreedyOptions(seed int64) greedy.Options {
	return greedy.Options{
		K:          c.RG.K,
		MaxSteps:   c.RG.MaxSteps,
		MaxTime:    c.RG.MaxTime,
		MaxRetries: 5,
		Seed:       seed,
	}
}
