package spec

import (
	"errors"
	"fmt"
)

// Specification errors.
var (
	ErrOutOfRange      = errors.New("value out of range")
	ErrConstruction    = errors.New("construction failed")
	ErrInvalidInterest = errors.New("invalid interest")
	ErrInvalidBaudrate = errors.New("baudrate must be positive")
	ErrInvalidSignal   = errors.New("invalid signal")
	ErrInvalidMessage  = errors.New("invalid message")
	ErrNilBus          = errors.New("nil bus")
)

// ConstructionError reports a message that could not be built while a bus
// was being assembled. Err is the underlying cause.
type ConstructionError struct {
	Bus     string
	Message string
	Err     error
}

func (e *ConstructionError) Error() string {
	if e.Bus == "" {
		return fmt.Sprintf("in message %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("in bus %s: in message %s: %v", e.Bus, e.Message, e.Err)
}

// Unwrap exposes both the cause and ErrConstruction to errors.Is.
func (e *ConstructionError) Unwrap() []error {
	return []error{ErrConstruction, e.Err}
}

// InvalidInterestError reports a filtered-view interest that has the wrong
// type or names no message of the bus.
type InvalidInterestError struct {
	Bus      string
	Interest any
	Reason   string
}

func (e *InvalidInterestError) Error() string {
	return fmt.Sprintf("in bus %s: in interest %v: %s", e.Bus, e.Interest, e.Reason)
}

func (e *InvalidInterestError) Unwrap() error {
	return ErrInvalidInterest
}
