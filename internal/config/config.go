// Package config loads engine and game settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

// FileName is the config file looked up in the data directory.
const FileName = "config.yaml"

// Config is the full set of settings.
type Config struct {
	Search  Search  `yaml:"search"`
	Eval    Eval    `yaml:"eval"`
	Rules   Rules   `yaml:"rules"`
	Storage Storage `yaml:"storage"`
	Log     Log     `yaml:"log"`
	Game    Game    `yaml:"game"`
}

type Search struct {
	Depth int `yaml:"depth"`
}

type Eval struct {
	Profile string `yaml:"profile"`
}

// Rules are the optional rule variants. All default to off.
type Rules struct {
	RevokeCastlingOnKingMove    bool `yaml:"revoke_castling_on_king_move"`
	RevokeCastlingOnRookCapture bool `yaml:"revoke_castling_on_rook_capture"`
	StrictCheckmate             bool `yaml:"strict_checkmate"`
}

type Storage struct {
	Enabled  bool   `yaml:"enabled"`
	Dir      string `yaml:"dir"` // empty: <data dir>/db
	InMemory bool   `yaml:"in_memory"`
}

type Log struct {
	Debug bool `yaml:"debug"`
}

type Game struct {
	EngineColor string `yaml:"engine_color"` // white, black or none
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Search:  Search{Depth: engine.DifficultyDepth[engine.Medium]},
		Eval:    Eval{Profile: engine.ProfileStandard},
		Storage: Storage{Enabled: true},
		Game:    Game{EngineColor: "black"},
	}
}

// DefaultPath returns the config file location in the data directory.
func DefaultPath() (string, error) {
	dir, err := storage.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the file at path over the defaults. A missing file yields the
// defaults when allowMissing is set.
func Load(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Search.Depth < 1 || c.Search.Depth > engine.MaxDepth {
		return fmt.Errorf("invalid search.depth: %d (want 1..%d)", c.Search.Depth, engine.MaxDepth)
	}
	if _, err := engine.NewEvaluator(c.Eval.Profile); err != nil {
		return fmt.Errorf("invalid eval.profile: %w", err)
	}
	switch strings.ToLower(c.Game.EngineColor) {
	case "white", "black", "none", "":
	default:
		return fmt.Errorf("invalid game.engine_color: %q", c.Game.EngineColor)
	}
	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// BoardRules returns the rule variants for new positions.
func (c *Config) BoardRules() board.Rules {
	return board.Rules{
		RevokeCastlingOnKingMove:    c.Rules.RevokeCastlingOnKingMove,
		RevokeCastlingOnRookCapture: c.Rules.RevokeCastlingOnRookCapture,
		StrictCheckmate:             c.Rules.StrictCheckmate,
	}
}

// EngineColor returns the side played by the engine, if any.
func (c *Config) EngineColor() (board.Color, bool) {
	switch strings.ToLower(c.Game.EngineColor) {
	case "white":
		return board.White, true
	case "black":
		return board.Black, true
	}
	return board.NoColor, false
}

// EngineOptions maps the search settings onto engine options.
func (c *Config) EngineOptions(logger *log.Logger) engine.Options {
	return engine.Options{
		Depth:   c.Search.Depth,
		Profile: c.Eval.Profile,
		Logger:  logger,
		Debug:   c.Log.Debug,
	}
}

// StorageOptions maps the storage settings onto store options.
func (c *Config) StorageOptions(logger *log.Logger) storage.Options {
	return storage.Options{
		Dir:      c.Storage.Dir,
		InMemory: c.Storage.InMemory,
		Logger:   logger,
	}
}
