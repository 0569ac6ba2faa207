package config

import (
	"fmt"

	"gridsolve/internal/energy"
)

// BuildSystem turns a validated scenario plus loaded profile columns into
// the declarative system graph. Profiles referenced by flows must be
// present and match the time index length.
func (c *Config) BuildSystem(profiles map[string][]float64) (*energy.System, error) {
	step, err := c.Time.StepDuration()
	if err != nil {
		return nil, err
	}
	sys := energy.NewSystem(energy.TimeRange(c.Time.Start, c.Time.Periods, step))

	for _, bc := range c.Buses {
		bus := energy.NewBus(bc.Label)
		if bc.Balanced != nil {
			bus.Balanced = *bc.Balanced
		}
		if err := sys.Add(bus); err != nil {
			return nil, err
		}
	}

	for _, sc := range c.Sources {
		src := &energy.Source{Name: sc.Label}
		if err := sys.Add(src); err != nil {
			return nil, err
		}
		if err := c.addFlow(sys, profiles, src.Label(), sc.Output.Bus, sc.Output); err != nil {
			return nil, err
		}
	}

	for _, sc := range c.Sinks {
		sink := &energy.Sink{Name: sc.Label}
		if err := sys.Add(sink); err != nil {
			return nil, err
		}
		if err := c.addFlow(sys, profiles, sc.Input.Bus, sink.Label(), sc.Input); err != nil {
			return nil, err
		}
	}

	for _, tc := range c.Transformers {
		tr := &energy.Transformer{Name: tc.Label, ConversionFactors: tc.ConversionFactors}
		if err := sys.Add(tr); err != nil {
			return nil, err
		}
		if err := c.addFlow(sys, profiles, tc.Input.Bus, tr.Label(), tc.Input); err != nil {
			return nil, err
		}
		for _, out := range tc.Outputs {
			if err := c.addFlow(sys, profiles, tr.Label(), out.Bus, out); err != nil {
				return nil, err
			}
		}
	}

	for _, sc := range c.Storages {
		st := &energy.Storage{
			Name:               sc.Label,
			NominalCapacityMWh: sc.NominalCapacityMWh,
			InitialCapacityMWh: sc.InitialCapacityMWh,
			CapacityLoss:       sc.CapacityLoss,
			InflowConversion:   sc.InflowConversion,
			OutflowConversion:  sc.OutflowConversion,
		}
		if sc.Investment != nil {
			st.Investment = &energy.Investment{
				EpCosts: sc.Investment.EpCosts,
				Maximum: sc.Investment.Maximum,
			}
		}
		if err := sys.Add(st); err != nil {
			return nil, err
		}
		in := FlowConfig{Bus: sc.Bus, VariableCost: sc.InputCost}
		out := FlowConfig{Bus: sc.Bus, VariableCost: sc.OutputCost}
		if err := c.addFlow(sys, profiles, sc.Bus, st.Label(), in); err != nil {
			return nil, err
		}
		if err := c.addFlow(sys, profiles, st.Label(), sc.Bus, out); err != nil {
			return nil, err
		}
	}

	return sys, nil
}

func (c *Config) addFlow(sys *energy.System, profiles map[string][]float64, from, to string, fc FlowConfig) error {
	src, ok := sys.Entity(from)
	if !ok {
		return fmt.Errorf("flow %s->%s: unknown entity %q", from, to, from)
	}
	dst, ok := sys.Entity(to)
	if !ok {
		return fmt.Errorf("flow %s->%s: unknown entity %q", from, to, to)
	}

	flow := &energy.Flow{
		From:           src,
		To:             dst,
		NominalValueMW: fc.NominalValueMW,
		Min:            fc.Min,
		Max:            fc.Max,
		VariableCost:   fc.VariableCost,
		SummedMax:      fc.SummedMax,
	}
	if fc.Investment != nil {
		flow.Investment = &energy.Investment{
			EpCosts: fc.Investment.EpCosts,
			Maximum: fc.Investment.Maximum,
		}
	}
	if fc.Profile != "" {
		prof, ok := profiles[fc.Profile]
		if !ok {
			return fmt.Errorf("flow %s->%s: unknown profile %q", from, to, fc.Profile)
		}
		flow.Profile = prof
		// A profiled flow is fixed to its profile unless told otherwise.
		flow.Fixed = fc.Fixed == nil || *fc.Fixed
	}
	return sys.AddFlow(flow)
}
