package solver

import "fmt"

// SolveFailedError reports that the external solver did not deliver an
// optimal solution. Result extraction must never run after this error.
type SolveFailedError struct {
	Status Status
	Detail string
}

func (e *SolveFailedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("solve failed: %s", e.Status)
	}
	return fmt.Sprintf("solve failed: %s: %s", e.Status, e.Detail)
}
