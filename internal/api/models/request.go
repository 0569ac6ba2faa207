package models

// SolveRequest asks the server to solve a scenario available on its
// filesystem. Solver settings come from the scenario file; Binary and
// Args override them when set.
type SolveRequest struct {
	ScenarioFile string `json:"scenario_file" binding:"required"`

	Binary string   `json:"binary"`
	Args   []string `json:"args"`

	// Archive persists the run; IncludeSequences controls whether the
	// (potentially large) sequence tables are returned inline.
	Archive          bool `json:"archive"`
	IncludeSequences bool `json:"include_sequences"`
}
