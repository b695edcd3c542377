package texmd

import (
	"errors"
	"fmt"
)

var (
	// ErrNoContent is returned when the input has nothing to convert
	ErrNoContent = errors.New("texmd: no content to convert")

	// ErrNoProgress means a recognizer returned without consuming any input
	ErrNoProgress = errors.New("texmd: recognizer made no progress")

	// ErrStepLimit means the expansion ran for more steps than configured
	ErrStepLimit = errors.New("texmd: expansion step limit exceeded")
)

// ContractError reports a broken internal invariant of the expansion engine.
// It is a bug in a recognizer, never a problem with the input.
type ContractError struct {
	Recognizer string
	Offset     int
	Msg        string
	Err        error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("texmd: recognizer %s at offset %d: %s", e.Recognizer, e.Offset, e.Msg)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// recoverContract converts a panic carrying a *ContractError into an error.
// Any other panic is propagated.
func recoverContract(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ce, ok := r.(*ContractError); ok {
		*err = ce
		return
	}
	panic(r)
}
