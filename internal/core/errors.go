package core

// errors.go defines the host/runtime error sentinels, following the
// teacher's errors.New/wrapped-sentinel style in internal/vm/mem.go and
// internal/vm/exec.go (ErrMemory, ErrAccessControl, ErrHalted).

import (
	"errors"
	"fmt"
)

var (
	// ErrHalted is returned when Step is called after the CPU has already exited.
	ErrHalted = errors.New("core: halted")

	// ErrCancelled is returned by RunUntilExit when the host-supplied context is cancelled.
	ErrCancelled = errors.New("core: cancelled")

	// ErrDoubleFault indicates a trap was taken at the trap handler's own entry PC.
	ErrDoubleFault = errors.New("core: double fault")

	// ErrKernelPanic indicates the system controller's kernel-panic magic write was observed.
	ErrKernelPanic = errors.New("core: kernel panic")

	// ErrUnknownDevice is returned by Bus.Map when overlapping or unmapped regions are requested.
	ErrUnknownDevice = errors.New("core: unknown device")

	// ErrLoaderFormat is returned by LoadImage when the image is neither a flat binary nor a
	// recognised ELF64 file.
	ErrLoaderFormat = errors.New("core: unrecognised image format")
)

// ConfigError is returned by LoadConfig/Validate when the decoded configuration violates one of
// §4.1's constraints. There is no recovery; the caller must fix the input.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok
}
