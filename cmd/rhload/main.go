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

	stats, err := bench.RunLoad(cfg, log)
	if err != nil {
		log.Fatal("running load", zap.Error(err))
	}
	run := bench.Run{At: time.Now().UTC(), Config: cfg, Load: &stats}
	if err := bench.WriteResults(cfg.OutPath, os.Stdout, run); err != nil {
		log.Fatal("writing results", zap.Error(err))
	}
}
