// Command space4ai-d-server exposes the placement optimizer as the
// long-running Gin job service of internal/api: submit a system+algorithm
// description pair, poll job status, fetch the K-best EliteResults, fetch
// the workload-maximization outcome — all backed by the internal/store
// GORM/SQLite persistence layer (§B).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/space4ai/placement-optimizer/internal/api"
	"github.com/space4ai/placement-optimizer/internal/config"
	"github.com/space4ai/placement-optimizer/internal/logx"
	"github.com/space4ai/placement-optimizer/internal/store"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "ambient config.yaml path (§A.3)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		cfg = config.Default()
	}

	log := logx.New("space4ai-d-server", cfg.LogLevel(), os.Stderr)

	db, err := store.NewDatabase(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := store.NewRepository(db)
	server := api.NewServer(repo, cfg.Server.Port, log)

	log.Log(logx.Info, "listening on :%s", cfg.Server.Port)
	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
