package rxgo

import (
	"fmt"

	"github.com/pkg/errors"
)

// WrapPanic turns a recovered panic value into an error carrying a stack
// trace, for delivery on_error. The core never logs this; see Logger for
// the lifecycle-only logging path.
func WrapPanic(recovered interface{}) error {
	if err, ok := recovered.(error); ok {
		return errors.WithStack(err)
	}
	return errors.WithStack(fmt.Errorf("%v", recovered))
}

// RetryExhaustedError reports that a Retry operator gave up after its
// configured attempt budget.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("rxgo: retry exhausted after %d attempt(s): %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }

// NoSuchElementError is returned by blocking accessors (BlockingFirst,
// ForEach-style drains) on an empty source.
type NoSuchElementError struct {
	Message string
}

func (e *NoSuchElementError) Error() string { return e.Message }

func NewNoSuchElementError(message string) *NoSuchElementError {
	return &NoSuchElementError{Message: message}
}
