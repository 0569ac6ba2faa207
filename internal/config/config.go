package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk scenario shape (YAML): the declarative energy
// system, the time index, and how to reach the external solver.
type Config struct {
	Name string `yaml:"name"`

	Time     TimeConfig    `yaml:"time"`
	Profiles ProfileConfig `yaml:"profiles"`

	Buses        []BusConfig         `yaml:"buses"`
	Sources      []SourceConfig      `yaml:"sources"`
	Sinks        []SinkConfig        `yaml:"sinks"`
	Transformers []TransformerConfig `yaml:"transformers"`
	Storages     []StorageConfig     `yaml:"storages"`

	Solver SolverConfig `yaml:"solver"`
}

type TimeConfig struct {
	Start   time.Time `yaml:"start"`
	Periods int       `yaml:"periods"`
	Step    string    `yaml:"step"` // e.g. "1h", "15m"
}

func (t TimeConfig) StepDuration() (time.Duration, error) {
	if t.Step == "" {
		return time.Hour, nil
	}
	return time.ParseDuration(t.Step)
}

// ProfileConfig points at the CSV holding normalized time-series columns
// (wind, pv, demand, ...). Paths are resolved relative to the scenario
// file.
type ProfileConfig struct {
	File string `yaml:"file"`
}

type BusConfig struct {
	Label string `yaml:"label"`
	// Balanced defaults to true; commodity buses set it to false.
	Balanced *bool `yaml:"balanced"`
}

// FlowConfig declares one directed flow endpoint. Setting a profile makes
// the flow fixed to that profile unless fixed is explicitly false.
type FlowConfig struct {
	Bus            string            `yaml:"bus"`
	NominalValueMW float64           `yaml:"nominal_value_mw"`
	Min            float64           `yaml:"min"`
	Max            float64           `yaml:"max"`
	VariableCost   float64           `yaml:"variable_cost"`
	Profile        string            `yaml:"profile"`
	Fixed          *bool             `yaml:"fixed"`
	SummedMax      float64           `yaml:"summed_max"`
	Investment     *InvestmentConfig `yaml:"investment"`
}

type InvestmentConfig struct {
	EpCosts float64 `yaml:"ep_costs"`
	Maximum float64 `yaml:"maximum"`
}

type SourceConfig struct {
	Label  string     `yaml:"label"`
	Output FlowConfig `yaml:"output"`
}

type SinkConfig struct {
	Label string     `yaml:"label"`
	Input FlowConfig `yaml:"input"`
}

type TransformerConfig struct {
	Label             string             `yaml:"label"`
	Input             FlowConfig         `yaml:"input"`
	Outputs           []FlowConfig       `yaml:"outputs"`
	ConversionFactors map[string]float64 `yaml:"conversion_factors"`
}

type StorageConfig struct {
	Label              string            `yaml:"label"`
	Bus                string            `yaml:"bus"`
	NominalCapacityMWh float64           `yaml:"nominal_capacity_mwh"`
	InitialCapacityMWh float64           `yaml:"initial_capacity_mwh"`
	CapacityLoss       float64           `yaml:"capacity_loss"`
	InflowConversion   float64           `yaml:"inflow_conversion"`
	OutflowConversion  float64           `yaml:"outflow_conversion"`
	InputCost          float64           `yaml:"input_cost"`
	OutputCost         float64           `yaml:"output_cost"`
	Investment         *InvestmentConfig `yaml:"investment"`
}

type SolverConfig struct {
	Binary    string   `yaml:"binary"`     // defaults to glpsol
	ModelFile string   `yaml:"model_file"` // LP file handed to the solver
	Args      []string `yaml:"args"`
}

// Load reads, resolves and validates a scenario file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads a scenario without validating it. Useful for
// debugging/printing partial scenarios.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// Resolve file references relative to the scenario directory, falling
	// back to the provided path if the resolved candidate does not exist.
	c.Profiles.File = resolvePath(path, c.Profiles.File)
	c.Solver.ModelFile = resolvePath(path, c.Solver.ModelFile)
	return &c, nil
}

func resolvePath(cfgPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(filepath.Dir(cfgPath), p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Time.Periods <= 0 {
		return errors.New("time.periods must be > 0")
	}
	if _, err := c.Time.StepDuration(); err != nil {
		return fmt.Errorf("time.step invalid: %w", err)
	}
	if len(c.Buses) == 0 {
		return errors.New("at least one bus is required")
	}
	if c.Solver.ModelFile == "" {
		return errors.New("solver.model_file is required")
	}
	seen := map[string]bool{}
	for _, b := range c.Buses {
		if b.Label == "" {
			return errors.New("bus label must not be empty")
		}
		if seen[b.Label] {
			return fmt.Errorf("duplicate bus label %q", b.Label)
		}
		seen[b.Label] = true
	}
	for _, s := range c.Storages {
		if s.Bus == "" {
			return fmt.Errorf("storage %q: bus is required", s.Label)
		}
		if s.InflowConversion < 0 || s.InflowConversion > 1 ||
			s.OutflowConversion < 0 || s.OutflowConversion > 1 {
			return fmt.Errorf("storage %q: conversion factors must be in [0,1]", s.Label)
		}
	}
	return nil
}
