package asset

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrAssetLoad = errors.New("asset load failed")
	ErrNoLoader  = errors.New("no loader registered")
	ErrLoadCycle = errors.New("asset load cycle")
)

// LoadError reports a loader failure. It matches ErrAssetLoad and unwraps
// to the loader's own error.
type LoadError struct {
	Type reflect.Type
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s %q: %v", e.Type, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	return target == ErrAssetLoad
}
