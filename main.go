// ChessCore - a console chess game against a fixed-depth alpha-beta engine
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	configPath = flag.String("config", "", "config file (default <data dir>/config.yaml)")
	depth      = flag.Int("depth", 0, "search depth, overrides the config")
	fen        = flag.String("fen", "", "start from this position")
)

func main() {
	flag.Parse()
	log.SetPrefix("chesscore: ")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *depth != 0 {
		cfg.Search.Depth = *depth
		if err := cfg.Validate(); err != nil {
			log.Fatal(err)
		}
	}

	logger := log.New(os.Stderr, "chesscore: ", log.LstdFlags)
	opts := game.Options{Rules: cfg.BoardRules(), Logger: logger}

	if color, ok := cfg.EngineColor(); ok {
		eng, err := engine.NewEngine(cfg.EngineOptions(logger))
		if err != nil {
			log.Fatal(err)
		}
		opts.Engine, opts.EngineColor = eng, color
	}

	if cfg.Storage.Enabled {
		store, err := storage.Open(cfg.StorageOptions(logger))
		if err != nil {
			log.Printf("Warning: move log disabled: %v", err)
		} else {
			defer store.Close()
			opts.Store = store
		}
	}

	session, err := game.NewSession(opts, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	if *fen != "" {
		if err := session.Execute("new " + *fen); err != nil {
			log.Fatal(err)
		}
	}
	if err := session.Run(os.Stdin); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the given file, or the default one if it exists.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path, false)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(path, true)
}
