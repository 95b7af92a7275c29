package engine

import (
	"math"

	"github.com/wippyai/texsvg/errors"
)

const (
	// DefaultStackLimitBytes is the recommended interpreter stack ceiling (4 MiB).
	DefaultStackLimitBytes uint64 = 4 << 20

	// DefaultHeapLimitBytes is the recommended interpreter heap ceiling (128 MiB).
	DefaultHeapLimitBytes uint64 = 128 << 20

	// SlotBytes is the stack cost charged per interpreter stack slot. The
	// interpreter bounds recursion in slots, roughly one per JavaScript call
	// frame, so StackLimitBytes / SlotBytes is the slot budget it enforces.
	SlotBytes uint64 = 256

	// MinHeapLimitBytes is the smallest heap ceiling the interpreter honours.
	// Lower ceilings are raised to it when applied.
	MinHeapLimitBytes uint64 = 128 << 10
)

// Config holds the resource ceilings applied to an interpreter before its
// bundle is loaded.
type Config struct {
	// StackLimitBytes bounds call depth inside the interpreter.
	// Exceeding it surfaces as KindResourceExceeded.
	StackLimitBytes uint64

	// HeapLimitBytes bounds every allocation the interpreter holds, including
	// the compiled bundle and anything it retains between evaluations.
	// Exceeding it surfaces as KindResourceExceeded.
	HeapLimitBytes uint64
}

// DefaultConfig returns the recommended ceilings.
func DefaultConfig() *Config {
	return &Config{
		StackLimitBytes: DefaultStackLimitBytes,
		HeapLimitBytes:  DefaultHeapLimitBytes,
	}
}

// StackSlots converts the stack ceiling to the interpreter's slot budget.
func (c *Config) StackSlots() uintptr {
	return clampUintptr(c.StackLimitBytes / SlotBytes)
}

// MemoryLimit is the heap ceiling as applied to the interpreter.
func (c *Config) MemoryLimit() uintptr {
	return clampUintptr(max(c.HeapLimitBytes, MinHeapLimitBytes))
}

func clampUintptr(n uint64) uintptr {
	if uint64(^uintptr(0)) < math.MaxUint64 && n > uint64(^uintptr(0)) {
		return ^uintptr(0)
	}
	return uintptr(n)
}

func (c *Config) validate() error {
	if c.StackLimitBytes == 0 {
		return errors.Misconfigured("stack ceiling must be positive")
	}
	if c.StackLimitBytes < SlotBytes {
		return errors.Misconfigured("stack ceiling of %d bytes is below one slot (%d bytes)", c.StackLimitBytes, SlotBytes)
	}
	if c.HeapLimitBytes == 0 {
		return errors.Misconfigured("heap ceiling must be positive")
	}
	return nil
}
