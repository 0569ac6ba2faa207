package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridsolve/internal/energy"
)

const scenarioYAML = `name: dispatch
time:
  start: 2012-01-01T00:00:00Z
  periods: 2
  step: 1h
profiles:
  file: profiles.csv
buses:
  - label: bel
  - label: bgas
    balanced: false
sources:
  - label: wind
    output:
      bus: bel
      nominal_value_mw: 66.3
      profile: wind
sinks:
  - label: demand_el
    input:
      bus: bel
      nominal_value_mw: 85
      profile: demand_el
transformers:
  - label: pp_gas
    input:
      bus: bgas
    outputs:
      - bus: bel
        nominal_value_mw: 58
        variable_cost: 42
    conversion_factors:
      bel: 0.58
storages:
  - label: battery
    bus: bel
    inflow_conversion: 0.9
    outflow_conversion: 0.9
    output_cost: 1.5
    investment:
      ep_costs: 80
solver:
  model_file: model.lp
`

func writeScenario(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "profiles.csv"),
		[]byte("wind,demand_el\n0.5,0.8\n0.7,0.9\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.lp"),
		[]byte("\\ placeholder\n"), 0o644))
	return path
}

func testProfiles() map[string][]float64 {
	return map[string][]float64{
		"wind":      {0.5, 0.7},
		"demand_el": {0.8, 0.9},
	}
}

func TestLoad(t *testing.T) {
	path := writeScenario(t, scenarioYAML)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dispatch", c.Name)
	assert.Equal(t, 2, c.Time.Periods)
	step, err := c.Time.StepDuration()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, step)

	// File references are resolved next to the scenario file.
	assert.Equal(t, filepath.Join(filepath.Dir(path), "profiles.csv"), c.Profiles.File)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "model.lp"), c.Solver.ModelFile)

	require.Len(t, c.Buses, 2)
	require.NotNil(t, c.Buses[1].Balanced)
	assert.False(t, *c.Buses[1].Balanced)
	require.Len(t, c.Storages, 1)
	require.NotNil(t, c.Storages[0].Investment)
	assert.Equal(t, 80.0, c.Storages[0].Investment.EpCosts)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Name:   "dispatch",
			Time:   TimeConfig{Periods: 2},
			Buses:  []BusConfig{{Label: "bel"}},
			Solver: SolverConfig{ModelFile: "model.lp"},
		}
	}

	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing name", func(c *Config) { c.Name = "" }},
		{"zero periods", func(c *Config) { c.Time.Periods = 0 }},
		{"bad step", func(c *Config) { c.Time.Step = "eventually" }},
		{"no buses", func(c *Config) { c.Buses = nil }},
		{"empty bus label", func(c *Config) { c.Buses = []BusConfig{{}} }},
		{"duplicate bus", func(c *Config) {
			c.Buses = append(c.Buses, BusConfig{Label: "bel"})
		}},
		{"missing model file", func(c *Config) { c.Solver.ModelFile = "" }},
		{"storage without bus", func(c *Config) {
			c.Storages = []StorageConfig{{Label: "battery"}}
		}},
		{"storage conversion out of range", func(c *Config) {
			c.Storages = []StorageConfig{{Label: "battery", Bus: "bel", InflowConversion: 1.2}}
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestBuildSystem(t *testing.T) {
	c, err := Load(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	sys, err := c.BuildSystem(testProfiles())
	require.NoError(t, err)

	require.Len(t, sys.TimeIndex(), 2)
	for _, label := range []string{"bel", "bgas", "wind", "demand_el", "pp_gas", "battery"} {
		_, ok := sys.Entity(label)
		assert.True(t, ok, label)
	}

	// Only balanced buses participate in the balance constraint set.
	buses := sys.Buses()
	require.Len(t, buses, 1)
	assert.Equal(t, "bel", buses[0].Label())

	// wind->bel, bel->demand_el, bgas->pp_gas, pp_gas->bel and the
	// storage charge/discharge pair.
	flows := sys.Flows()
	require.Len(t, flows, 6)

	var windFlow *energy.Flow
	for _, f := range flows {
		if f.From.Label() == "wind" && f.To.Label() == "bel" {
			windFlow = f
		}
	}
	require.NotNil(t, windFlow)
	assert.True(t, windFlow.Fixed)
	assert.Equal(t, []float64{0.5, 0.7}, windFlow.Profile)
}

func TestBuildSystemUnknownProfile(t *testing.T) {
	c, err := Load(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	_, err = c.BuildSystem(map[string][]float64{"wind": {0.5, 0.7}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "demand_el")
}
