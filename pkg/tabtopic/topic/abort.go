package topic

import (
	"fmt"

	"github.com/cognicore/tabtopic/pkg/tabtopic/internalerr"
)

// AbortError reports a run stopped by its context. It matches
// internalerr.ErrAborted and the context's error under errors.Is.
type AbortError struct {
	Stage Stage // the stage that was about to run
	Err   error
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("topic clustering aborted before %s: %v", e.Stage, e.Err)
}

func (e *AbortError) Unwrap() []error {
	return []error{internalerr.ErrAborted, e.Err}
}
