package results

import "fmt"

// DataAlignmentError reports a sequence that does not line up with the
// declared time index: wrong length, a step outside the index, or a
// duplicate cell. The offending relation key gets no partial entry.
type DataAlignmentError struct {
	Key      string
	Variable string
	Got      int
	Want     int
	Detail   string
}

func (e *DataAlignmentError) Error() string {
	msg := fmt.Sprintf("data alignment: key %s variable %q", e.Key, e.Variable)
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return fmt.Sprintf("%s: got %d values, want %d", msg, e.Got, e.Want)
}

// MissingIndexError reports a variable record whose raw index cannot be
// mapped to a relation key. It indicates an incompatible solver or model
// version and is fatal.
type MissingIndexError struct {
	Block    string
	Variable string
	Reason   string
}

func (e *MissingIndexError) Error() string {
	return fmt.Sprintf("record %s.%s: %s", e.Block, e.Variable, e.Reason)
}
