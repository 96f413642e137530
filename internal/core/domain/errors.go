package domain

import "fmt"

// Build failures are terminal for the invocation: no partial image is kept
// and no retry happens at this layer. Each failure class is a distinct type
// so callers can match with errors.As.

// ResolutionError means the base image could not be resolved by the daemon
// or registry.
type ResolutionError struct {
	BaseImage string
	Cause     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("base image %q could not be resolved: %v", e.BaseImage, e.Cause)
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

// MissingSourceError means a staging source does not exist in the build
// context.
type MissingSourceError struct {
	Source string
	Cause  error
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("staging source %q not found in build context", e.Source)
}

func (e *MissingSourceError) Unwrap() error { return e.Cause }

// InvalidPortError means the declared exposed port is outside 1-65535.
type InvalidPortError struct {
	Port int
}

func (e *InvalidPortError) Error() string {
	return fmt.Sprintf("exposed port %d is outside the valid range 1-65535", e.Port)
}

// InvalidSpecError covers the remaining spec-shape failures caught before
// any staging happens: empty base image, empty entrypoint, relative workdir.
type InvalidSpecError struct {
	Field  string
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid image spec: %s %s", e.Field, e.Reason)
}

// EntrypointStartError means a container instance could not start its
// entrypoint. It is fatal to that instance only; the orchestrator that asked
// for the start decides what to do next.
type EntrypointStartError struct {
	Image string
	Cause error
}

func (e *EntrypointStartError) Error() string {
	return fmt.Sprintf("entrypoint of image %q failed to start: %v", e.Image, e.Cause)
}

func (e *EntrypointStartError) Unwrap() error { return e.Cause }
