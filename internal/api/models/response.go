package models

import "time"

type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// EntryResult is one relation-key entry with stringified key labels.
type EntryResult struct {
	Key       []string           `json:"key"`
	Scalars   map[string]float64 `json:"scalars"`
	Sequences *SequencesResult   `json:"sequences,omitempty"`
}

type SequencesResult struct {
	Index   []time.Time          `json:"index"`
	Columns map[string][]float64 `json:"columns"`
}

type FlowSummaryResult struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	TotalMWh float64 `json:"total_mwh"`
	MeanMW   float64 `json:"mean_mw"`
	PeakMW   float64 `json:"peak_mw"`
}

type NodeBalanceResult struct {
	Label  string  `json:"label"`
	InMWh  float64 `json:"in_mwh"`
	OutMWh float64 `json:"out_mwh"`
	NetMWh float64 `json:"net_mwh"`
}

type SolveResponse struct {
	Status    string              `json:"status"`
	Scenario  string              `json:"scenario"`
	Objective float64             `json:"objective"`
	RunID     string              `json:"run_id,omitempty"`
	Results   []EntryResult       `json:"results"`
	Flows     []FlowSummaryResult `json:"flows"`
	Nodes     []NodeBalanceResult `json:"nodes"`
}

type RunSummary struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	Status    string    `json:"status"`
	Objective float64   `json:"objective"`
	CreatedAt time.Time `json:"created_at"`
}

type RunDetail struct {
	RunSummary
	Scalars   []RunScalar   `json:"scalars"`
	Sequences []RunSequence `json:"sequences"`
}

type RunScalar struct {
	Source   string  `json:"source"`
	Target   string  `json:"target,omitempty"`
	Variable string  `json:"variable"`
	Value    float64 `json:"value"`
}

type RunSequence struct {
	Source    string    `json:"source"`
	Target    string    `json:"target,omitempty"`
	Variable  string    `json:"variable"`
	Step      int       `json:"step"`
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}
