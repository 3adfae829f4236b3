// Command space4ai-d runs the design-time placement optimizer end to end:
// load a system description and an algorithm configuration, run the
// randomized-greedy generator and the configured heuristic across a
// parallel driver, binary-search the maximum sustainable workload rate for
// the best placement found, and write the solution document (§6.4).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/space4ai/placement-optimizer/internal/binarysearch"
	"github.com/space4ai/placement-optimizer/internal/config"
	"github.com/space4ai/placement-optimizer/internal/cost"
	"github.com/space4ai/placement-optimizer/internal/logx"
	"github.com/space4ai/placement-optimizer/internal/manifest"
	"github.com/space4ai/placement-optimizer/internal/perf"
	"github.com/space4ai/placement-optimizer/internal/placement"
	"github.com/space4ai/placement-optimizer/internal/search/driver"
)

func main() {
	var applicationDir, configPath string
	flag.StringVar(&applicationDir, "C", "", "application directory (common_config/, space4ai-d/, oscarp/, aisprint/...)")
	flag.StringVar(&applicationDir, "application_dir", "", "application directory (common_config/, space4ai-d/, oscarp/, aisprint/...)")
	flag.StringVar(&configPath, "config", "", "ambient config.yaml path (defaults to <application_dir>/common_config/config.yaml; §A.3)")
	flag.Parse()

	printBanner()

	if applicationDir == "" {
		fmt.Fprintln(os.Stderr, "error: -C/--application_dir is required")
		os.Exit(1)
	}
	if configPath == "" {
		configPath = filepath.Join(applicationDir, "common_config", "config.yaml")
	}

	if err := run(applicationDir, configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(applicationDir, configPath string) error {
	systemPath := filepath.Join(applicationDir, "space4ai-d", "system_description.json")
	algorithmPath := filepath.Join(applicationDir, "space4ai-d", "algorithm_config.json")
	outputDir := filepath.Join(applicationDir, "aisprint", "deployments", "optimal_deployment")

	ambient, err := config.Load(configPath)
	if err != nil {
		ambient = config.Default()
	}

	algCfg, err := manifest.LoadAlgorithmConfig(algorithmPath)
	if err != nil {
		return err
	}

	log := logx.New("space4ai-d", algCfg.VerboseLevel, os.Stderr)
	log.Log(logx.Info, "loading system description from %s", systemPath)

	sys, err := manifest.LoadSystem(systemPath, log)
	if err != nil {
		return err
	}

	regs := perf.NewRegressorTable()
	checker := placement.NewChecker(sys, regs)

	// The ambient config (§A.3) is the documented path for raising worker
	// count beyond the manifest loader's hardcoded default of 1 (§4.7).
	workers := algCfg.Workers
	if ambient.Workers > workers {
		workers = ambient.Workers
	}
	log.Log(logx.Info, "running randomized-greedy + %s across %d worker(s)", algCfg.Engine, workers)

	dopts := driver.Options{
		Workers:   workers,
		Seed:      algCfg.Seed,
		K:         algCfg.RG.K,
		Greedy:    algCfg.GreedyOptions(algCfg.Seed),
		Heuristic: algCfg.Heuristic,
		Engine:    algCfg.Engine,
		MaxSteps:  algCfg.RG.MaxSteps,
		MaxTime:   algCfg.RG.MaxTime,
	}
	elites := driver.Run(checker, dopts, log)

	best, ok := elites.Best()
	if !ok {
		return fmt.Errorf("no feasible or infeasible candidate was produced")
	}
	if !best.Feasible {
		log.Err("no feasible solution found; reporting the best-infeasible placement (violation rate %f)", best.ViolationRate)
	}

	log.Log(logx.Info, "maximizing workload rate for the best placement found (Λ=%f)", sys.Lambda)
	bsResult := binarysearch.Maximize(checker, best.Assignment, sys.Lambda, algCfg.BS.UpperBoundLambda, algCfg.BS.Epsilon, log)

	totalCost := best.Cost
	if totalCost == 0 && bsResult.Feasible.Feasible {
		totalCost = cost.Compute(sys, bsResult.Assignment)
	}
	sol := manifest.BuildSolution(sys, bsResult.Assignment, bsResult.Feasible, totalCost)

	if err := manifest.WriteSolution(outputDir, sys, bsResult.Assignment, sol); err != nil {
		return err
	}
	log.Log(logx.Info, "solution written to %s (feasible=%v, cost=%f, Λ_max=%f)", outputDir, sol.Feasible, sol.TotalCost, bsResult.Lambda)
	return nil
}

func printBanner() {
	fmt.Println()
	fmt.Println("========================================================")
	fmt.Println("             SPACE4AI-D placement optimizer            ")
	fmt.Println("========================================================")
	fmt.Println()
}
