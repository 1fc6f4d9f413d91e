package table

import "fmt"

// State is a step of the analysis pipeline. The pipeline only moves forward:
// Unloaded, Decoded, ClothColorKnown, Segmented, Done.
type State int

const (
	Unloaded State = iota
	Decoded
	ClothColorKnown
	Segmented
	Done
)

var stateNames = [...]string{
	Unloaded:        "unloaded",
	Decoded:         "decoded",
	ClothColorKnown: "cloth-color-known",
	Segmented:       "segmented",
	Done:            "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// StageError reports the state the pipeline failed to reach. No partial
// results accompany it.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("analysis failed reaching %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
