// Package config loads and validates the RISC-16 simulator configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/risc16sim/emu"
	"github.com/sarchlab/risc16sim/timing/cache"
	"github.com/sarchlab/risc16sim/timing/core"
	"github.com/sarchlab/risc16sim/timing/pipeline"
)

// Limits on the auto-step pacing.
const (
	MinRunSpeedMs = 50
	MaxRunSpeedMs = 2000
)

// Config holds the simulator settings.
type Config struct {
	// RunSpeedMs is the delay between cycles when auto-stepping.
	RunSpeedMs int `yaml:"runSpeedMs"`

	// MaxCycles caps a run to completion. 0 means no limit.
	MaxCycles uint64 `yaml:"maxCycles"`

	// MemoryWindow is the number of data memory bytes shown in snapshots
	// and reports.
	MemoryWindow int `yaml:"memoryWindow"`

	// FlushWriteback makes flushes clear WB so that a redirecting
	// instruction retires once.
	FlushWriteback bool `yaml:"flushWriteback"`

	// DCache configures the optional data cache model.
	DCache DCacheConfig `yaml:"dcache"`
}

// DCacheConfig enables and sizes the data cache model.
type DCacheConfig struct {
	Enabled      bool `yaml:"enabled"`
	cache.Config `yaml:",inline"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RunSpeedMs:   500,
		MaxCycles:    100000,
		MemoryWindow: core.DefaultMemoryWindow,
		DCache: DCacheConfig{
			Config: cache.DefaultConfig(),
		},
	}
}

// LoadConfig loads a configuration from a YAML file. Settings missing from
// the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the configuration to a YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that all settings are in range.
func (c *Config) Validate() error {
	if c.RunSpeedMs < MinRunSpeedMs || c.RunSpeedMs > MaxRunSpeedMs {
		return fmt.Errorf("runSpeedMs must be in [%d, %d], got %d",
			MinRunSpeedMs, MaxRunSpeedMs, c.RunSpeedMs)
	}

	if c.MemoryWindow < 1 || c.MemoryWindow > emu.MemorySize {
		return fmt.Errorf("memoryWindow must be in [1, %d], got %d",
			emu.MemorySize, c.MemoryWindow)
	}

	if c.DCache.Enabled {
		if err := validateCache(c.DCache.Config); err != nil {
			return fmt.Errorf("dcache: %w", err)
		}
	}

	return nil
}

func validateCache(c cache.Config) error {
	if c.BlockSize <= 0 || c.BlockSize&(c.BlockSize-1) != 0 {
		return fmt.Errorf("blockSize must be a positive power of two, got %d", c.BlockSize)
	}

	if c.Associativity <= 0 {
		return fmt.Errorf("associativity must be positive, got %d", c.Associativity)
	}

	if c.NumSets() < 1 || c.Size%(c.Associativity*c.BlockSize) != 0 {
		return fmt.Errorf("size %d is not a multiple of associativity*blockSize (%d)",
			c.Size, c.Associativity*c.BlockSize)
	}

	return nil
}

// RunSpeed returns the auto-step interval.
func (c *Config) RunSpeed() time.Duration {
	return time.Duration(c.RunSpeedMs) * time.Millisecond
}

// PipelineOptions returns the pipeline options the configuration selects.
func (c *Config) PipelineOptions(logger logr.Logger) []pipeline.PipelineOption {
	opts := []pipeline.PipelineOption{pipeline.WithLogger(logger)}

	if c.FlushWriteback {
		opts = append(opts, pipeline.WithWritebackFlush())
	}

	if c.DCache.Enabled {
		opts = append(opts, pipeline.WithDCache(c.DCache.Config))
	}

	return opts
}

// CoreOptions returns the core options the configuration selects.
func (c *Config) CoreOptions(logger logr.Logger) []core.Option {
	return []core.Option{
		core.WithPipelineOptions(c.PipelineOptions(logger)...),
		core.WithMemoryWindow(c.MemoryWindow),
	}
}
