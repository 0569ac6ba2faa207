package solver

import "gridsolve/internal/energy"

// ElemKind discriminates raw index elements. Classification is explicit:
// an element is an entity reference or a time step because it was built
// as one, never because of runtime type inspection.
type ElemKind int

const (
	ElemEntity ElemKind = iota
	ElemStep
)

// IndexElem is one element of a variable's raw index tuple.
type IndexElem struct {
	kind   ElemKind
	entity energy.Entity
	step   int
}

func EntityElem(e energy.Entity) IndexElem {
	return IndexElem{kind: ElemEntity, entity: e}
}

func StepElem(t int) IndexElem {
	return IndexElem{kind: ElemStep, step: t}
}

func (e IndexElem) Kind() ElemKind        { return e.kind }
func (e IndexElem) IsEntity() bool        { return e.kind == ElemEntity }
func (e IndexElem) Entity() energy.Entity { return e.entity }
func (e IndexElem) Step() int             { return e.step }

// Record is one decision variable as emitted by the solved model:
// block name, variable name, raw index tuple, value.
// Missing marks a variable the solver reported no value for.
type Record struct {
	Block    string
	Variable string
	Index    []IndexElem
	Value    float64
	Missing  bool
}

// DualKey addresses the shadow price of one bus balance constraint at one
// time step.
type DualKey struct {
	Bus  string
	Step int
}

// Status is the solver's verdict on the model.
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusInfeasible Status = "infeasible"
	StatusUnbounded  Status = "unbounded"
	StatusUndefined  Status = "undefined"
)

// Solution is the solved-model handle: the flat set of variable records,
// the constraint duals when the solver reports them, and the objective.
// It is immutable once produced.
type Solution struct {
	Status    Status
	Objective float64
	Records   []Record
	Duals     map[DualKey]float64
}
