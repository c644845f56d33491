package main

import (
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/scottcagno/rhmap/pkg/bench"
)

func main() {
	var (
		configPath = flag.String("config", "", "toml config file (optional)")
		outPath    = flag.String("out", "", "json results file (default stdout)")
		dbPath     = flag.String("db", "", "sqlite history file (optional)")
	)
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := bench.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("loading config", zap.Error(err))
	}
	if *outPath != "" {
		cfg.OutPath = *outPath
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	run := bench.Run{
		At:      time.Now().UTC(),
		Config:  cfg,
		Results: bench.NewRunner(cfg, log).Run(),
	}
	if err := bench.WriteResults(cfg.OutPath, os.Stdout, run); err != nil {
		log.Fatal("writing results", zap.Error(err))
	}
	if cfg.DBPath != "" {
		if err := bench.SaveResults(cfg.DBPath, run); err != nil {
			log.Fatal("saving results", zap.Error(err))
		}
		log.Info("results saved", zap.String("db", cfg.DBPath))
	}
}
