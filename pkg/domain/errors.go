package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// FaultKind classifies where an image generation attempt broke down.
type FaultKind string

const (
	FaultTransport     FaultKind = "transport"
	FaultBackend       FaultKind = "backend"
	FaultResponseShape FaultKind = "response_shape"
	FaultLocalIO       FaultKind = "local_io"
)

// GenerationError is returned by providers for any fault caught at the
// generation boundary. Providers never panic or leak raw faults past it.
type GenerationError struct {
	Provider string
	Kind     FaultKind
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s image generation failed (%s): %s", e.Provider, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
