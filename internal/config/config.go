package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config carries every runtime knob. Values come from the environment;
// the serve command layers its flags on top, so flags beat env beats
// defaults.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"DELVE_ADDR" envDefault:":8080"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Seed is the master world seed; 0 draws a random one at boot.
	Seed int64 `env:"DELVE_SEED"`

	// SavePath is the SQLite save file; empty disables persistence.
	SavePath string `env:"DELVE_SAVE"`

	// AutosaveTicks saves the session every N simulation ticks; 0 saves
	// only on shutdown.
	AutosaveTicks int64 `env:"DELVE_AUTOSAVE_TICKS" envDefault:"100"`

	// CrowdPenalty is the extra path cost for walking a tile occupied
	// by a blocking entity.
	CrowdPenalty int `env:"DELVE_CROWD_PENALTY" envDefault:"10"`

	// Bots starts N headless agents, each in its own instance.
	Bots int `env:"DELVE_BOTS"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.CrowdPenalty < 0 {
		return fmt.Errorf("crowd penalty must be non-negative, got %d", c.CrowdPenalty)
	}
	if c.AutosaveTicks < 0 {
		return fmt.Errorf("autosave interval must be non-negative, got %d", c.AutosaveTicks)
	}
	if c.Bots < 0 {
		return fmt.Errorf("bot count must be non-negative, got %d", c.Bots)
	}
	return nil
}
