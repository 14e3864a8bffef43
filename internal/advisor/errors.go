package advisor

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedMessage reports a stage output the router cannot
// classify. The pipeline aborts rather than guessing an edge.
var ErrUnrecognizedMessage = errors.New("unrecognized stage output")

// StageError wraps a failed remote stage invocation. No automatic
// retry happens at this level.
type StageError struct {
	Stage StageName
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// RevisionLimitError reports that the compliance/clarity loop breached
// its configured ceiling. LastFeedback preserves the final compliance
// feedback so the caller can see why approval never happened.
type RevisionLimitError struct {
	Limit        int
	LastFeedback string
}

func (e *RevisionLimitError) Error() string {
	return fmt.Sprintf("revision limit of %d reached without compliance approval (last feedback: %s)", e.Limit, e.LastFeedback)
}
