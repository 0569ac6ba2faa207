package energy

// Flow is a directed quantity between two entities over time.
// All powers are in MW, costs in $/MWh.
type Flow struct {
	From Entity
	To   Entity

	// NominalValueMW scales the flow; actual flow at step t is bounded by
	// Min*Nominal..Max*Nominal, or fixed to Profile[t]*Nominal when Fixed.
	NominalValueMW float64
	Min            float64
	Max            float64 // 0 means 1.0 (full nominal)

	VariableCost float64

	// Profile holds per-step values normalized to [0,1]. Required when
	// Fixed is set; length must match the system time index.
	Profile []float64
	Fixed   bool

	// SummedMax caps total energy over the horizon as a multiple of
	// NominalValueMW (e.g. an annual fuel limit). 0 = no cap.
	SummedMax float64

	Investment *Investment
}
