package plural

import (
	"errors"
	"fmt"
)

// Collection errors.
var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("not found")
	ErrUnknownKey   = errors.New("unknown key")
	ErrNilItem      = errors.New("nil item")
)

// DuplicateKeyError reports a key collision on Add or Extend.
type DuplicateKeyError struct {
	Key   string
	Value any
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: %s %v already exists", ErrDuplicateKey, e.Key, e.Value)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

// NotFoundError reports a lookup miss.
type NotFoundError struct {
	Key   string
	Value any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v %s", e.Key, e.Value, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
