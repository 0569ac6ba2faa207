package analysis

import (
	"sort"

	"gridsolve/internal/results"
)

// flowColumn is the sequence column carrying dispatched flow in MW under
// the canonical variable naming convention (flow.value).
const flowColumn = "value"

// FlowSummary aggregates one flow's dispatch over the horizon.
type FlowSummary struct {
	Source   string
	Target   string
	TotalMWh float64
	MeanMW   float64
	PeakMW   float64
}

// SummarizeFlows computes per-flow energy totals from the result store.
// stepHours is the time index step in hours.
func SummarizeFlows(store *results.Store, stepHours float64) []FlowSummary {
	var out []FlowSummary
	for _, key := range store.Keys() {
		if len(key) != 2 {
			continue
		}
		entry, _ := store.Get(key)
		if entry.Sequences == nil {
			continue
		}
		col := entry.Sequences.Column(flowColumn)
		if col == nil {
			continue
		}
		var total, peak float64
		for _, v := range col {
			total += v * stepHours
			if v > peak {
				peak = v
			}
		}
		labels := key.Labels()
		s := FlowSummary{
			Source:   labels[0],
			Target:   labels[1],
			TotalMWh: total,
			PeakMW:   peak,
		}
		if len(col) > 0 {
			s.MeanMW = total / (float64(len(col)) * stepHours)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// NodeBalance is the energy in and out of one node over the horizon.
type NodeBalance struct {
	Label  string
	InMWh  float64
	OutMWh float64
	NetMWh float64
}

// NodeBalances accumulates flow totals into per-node balances. Positive
// net means the node injected more than it absorbed.
func NodeBalances(store *results.Store, stepHours float64) []NodeBalance {
	acc := make(map[string]*NodeBalance)
	get := func(label string) *NodeBalance {
		nb, ok := acc[label]
		if !ok {
			nb = &NodeBalance{Label: label}
			acc[label] = nb
		}
		return nb
	}

	for _, s := range SummarizeFlows(store, stepHours) {
		get(s.Source).OutMWh += s.TotalMWh
		get(s.Target).InMWh += s.TotalMWh
	}

	out := make([]NodeBalance, 0, len(acc))
	for _, nb := range acc {
		nb.NetMWh = nb.OutMWh - nb.InMWh
		out = append(out, *nb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
