// Package config loads engine startup configuration from an optional
// YAML file and QUADDECK_-prefixed environment variables via viper, over
// built-in defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/nullstage/quaddeck/pkg/audio"
)

// Config is the full set of startup parameters for the quaddeckd daemon.
type Config struct {
	SampleRate     int    `mapstructure:"sample_rate"`
	BufferSize     int    `mapstructure:"buffer_size"`
	MasterDevice   string `mapstructure:"master_device"`
	CueDevice      string `mapstructure:"cue_device"`
	CatalogPath    string `mapstructure:"catalog_path"`
	LoaderWorkers  int    `mapstructure:"loader_workers"`
	LogLevel       string `mapstructure:"log_level"`
	GraveyardSize  int    `mapstructure:"graveyard_size"`
	DiagRingSize   int    `mapstructure:"diag_ring_size"`
	CommandQueueSize int  `mapstructure:"command_queue_size"`
}

// Default returns the configuration used when no file or flags override
// it.
func Default() Config {
	return Config{
		SampleRate:       audio.SampleRate,
		BufferSize:       audio.MaxBufferSize,
		MasterDevice:     "",
		CueDevice:        "",
		CatalogPath:      "quaddeck.db",
		LoaderWorkers:    4,
		LogLevel:         "info",
		GraveyardSize:    256,
		DiagRingSize:     1024,
		CommandQueueSize: 1024,
	}
}

// Load reads configPath (if non-empty) merged over environment variables
// prefixed QUADDECK_ and the package defaults. A missing configPath is not
// an error — defaults and environment apply on their own.
func Load(configPath string) (Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("sample_rate", def.SampleRate)
	v.SetDefault("buffer_size", def.BufferSize)
	v.SetDefault("master_device", def.MasterDevice)
	v.SetDefault("cue_device", def.CueDevice)
	v.SetDefault("catalog_path", def.CatalogPath)
	v.SetDefault("loader_workers", def.LoaderWorkers)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("graveyard_size", def.GraveyardSize)
	v.SetDefault("diag_ring_size", def.DiagRingSize)
	v.SetDefault("command_queue_size", def.CommandQueueSize)

	v.SetEnvPrefix("QUADDECK")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("config: sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.BufferSize <= 0 || c.BufferSize > audio.MaxBufferSize {
		return fmt.Errorf("config: buffer_size must be in (0, %d], got %d", audio.MaxBufferSize, c.BufferSize)
	}
	if c.LoaderWorkers <= 0 {
		return fmt.Errorf("config: loader_workers must be positive, got %d", c.LoaderWorkers)
	}
	return nil
}
