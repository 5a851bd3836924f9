package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an identifier matches no indexed record
var ErrNotFound = errors.New("item not found")

// LoadError reports a dataset source that is missing or malformed
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
