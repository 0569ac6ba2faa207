package energy

// Kind identifies what role an entity plays in the system graph.
type Kind string

const (
	KindBus         Kind = "bus"
	KindSource      Kind = "source"
	KindSink        Kind = "sink"
	KindTransformer Kind = "transformer"
	KindStorage     Kind = "storage"
)

// Entity is a named node in the energy system graph.
// Identity is the label; two entities with the same label are the same entity.
type Entity interface {
	Label() string
	Kind() Kind
}

// Investment marks a capacity decision the solver is allowed to size.
// EpCosts are equivalent periodical costs in $/MW (or $/MWh for storage)
// over the planning horizon.
type Investment struct {
	EpCosts float64
	Maximum float64 // 0 = unbounded
}

// Bus is a balancing node. Every flow into a balanced bus must be matched
// by flows out of it at each time step; unbalanced buses (e.g. a fuel
// commodity) carry no balance constraint.
type Bus struct {
	Name     string
	Balanced bool
}

func NewBus(label string) *Bus { return &Bus{Name: label, Balanced: true} }

func (b *Bus) Label() string { return b.Name }
func (b *Bus) Kind() Kind    { return KindBus }

// Source feeds energy into the system (wind, pv, a commodity import).
type Source struct {
	Name string
}

func (s *Source) Label() string { return s.Name }
func (s *Source) Kind() Kind    { return KindSource }

// Sink removes energy from the system (demand, excess/curtailment).
type Sink struct {
	Name string
}

func (s *Sink) Label() string { return s.Name }
func (s *Sink) Kind() Kind    { return KindSink }

// Transformer converts flows between buses (a gas power plant, a heat
// pump). ConversionFactors are keyed by the output bus label, e.g.
// {"bel": 0.58} for a 58%-efficient gas plant.
type Transformer struct {
	Name              string
	ConversionFactors map[string]float64
}

func (t *Transformer) Label() string { return t.Name }
func (t *Transformer) Kind() Kind    { return KindTransformer }

// Storage shifts energy between time steps.
// Conversion factors are charge/discharge efficiencies in (0,1].
type Storage struct {
	Name               string
	NominalCapacityMWh float64
	InitialCapacityMWh float64
	CapacityLoss       float64 // fraction lost per time step
	InflowConversion   float64
	OutflowConversion  float64
	Investment         *Investment
}

func (s *Storage) Label() string { return s.Name }
func (s *Storage) Kind() Kind    { return KindStorage }
