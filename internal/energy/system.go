package energy

import (
	"fmt"
	"time"
)

// System is the declarative energy system: the entity registry, the flow
// list, and the planning time index. It is an explicit context object;
// there is no ambient global registry of created entities.
type System struct {
	timeIndex []time.Time
	entities  map[string]Entity
	order     []string
	flows     []*Flow
}

func NewSystem(timeIndex []time.Time) *System {
	return &System{
		timeIndex: timeIndex,
		entities:  make(map[string]Entity),
	}
}

// TimeRange builds an evenly spaced time index, e.g.
// TimeRange(start, 24, time.Hour) for one day of hourly steps.
func TimeRange(start time.Time, periods int, step time.Duration) []time.Time {
	idx := make([]time.Time, periods)
	for i := range idx {
		idx[i] = start.Add(time.Duration(i) * step)
	}
	return idx
}

// Add registers an entity. Labels are identity: registering a second
// entity under an existing label is an error.
func (s *System) Add(e Entity) error {
	if e.Label() == "" {
		return fmt.Errorf("entity label must not be empty")
	}
	if _, exists := s.entities[e.Label()]; exists {
		return fmt.Errorf("duplicate entity label %q", e.Label())
	}
	s.entities[e.Label()] = e
	s.order = append(s.order, e.Label())
	return nil
}

// AddFlow registers a flow. Both endpoints must already be registered.
func (s *System) AddFlow(f *Flow) error {
	if f.From == nil || f.To == nil {
		return fmt.Errorf("flow endpoints must not be nil")
	}
	for _, e := range []Entity{f.From, f.To} {
		reg, ok := s.entities[e.Label()]
		if !ok {
			return fmt.Errorf("flow references unregistered entity %q", e.Label())
		}
		if reg != e {
			return fmt.Errorf("flow references entity %q that shadows a registered one", e.Label())
		}
	}
	if f.Fixed && len(f.Profile) != len(s.timeIndex) {
		return fmt.Errorf("fixed flow %s->%s: profile length %d != time index length %d",
			f.From.Label(), f.To.Label(), len(f.Profile), len(s.timeIndex))
	}
	s.flows = append(s.flows, f)
	return nil
}

// Entity looks up a registered entity by label.
func (s *System) Entity(label string) (Entity, bool) {
	e, ok := s.entities[label]
	return e, ok
}

// Entities returns all registered entities in registration order.
func (s *System) Entities() []Entity {
	out := make([]Entity, 0, len(s.order))
	for _, label := range s.order {
		out = append(out, s.entities[label])
	}
	return out
}

func (s *System) Flows() []*Flow { return s.flows }

func (s *System) TimeIndex() []time.Time { return s.timeIndex }

// Buses returns the balanced buses in registration order. These are the
// nodes whose balance constraints carry dual values.
func (s *System) Buses() []*Bus {
	var out []*Bus
	for _, label := range s.order {
		if b, ok := s.entities[label].(*Bus); ok && b.Balanced {
			out = append(out, b)
		}
	}
	return out
}
