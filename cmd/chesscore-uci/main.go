package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	configPath = flag.String("config", "", "config file")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath, false); err != nil {
			log.Fatal(err)
		}
	}

	// UCI owns stdout; diagnostics go to stderr.
	logger := log.New(os.Stderr, "info string ", 0)
	eng, err := engine.NewEngine(cfg.EngineOptions(logger))
	if err != nil {
		log.Fatal(err)
	}

	protocol := uci.New(eng, cfg.BoardRules(), os.Stdout, logger)
	if err := protocol.Run(os.Stdin); err != nil {
		log.Fatal(err)
	}
}
