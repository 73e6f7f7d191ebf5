package sandbox

import (
	"time"
)

// Version is the tag reported by the health probe.
const Version = "1.0.0"

// Config holds the configuration for sandboxed script execution.
type Config struct {
	// Timeout is the maximum wall-clock time one evaluation may take.
	// Enforcement is best effort — the interpreter is asked to cancel at the
	// next safe point rather than being killed mid-instruction.
	Timeout time.Duration
	// MaxSteps caps the number of interpreter steps per evaluation. Unlike the
	// timeout this is deterministic, so a runaway loop is stopped even if the
	// cancel signal is slow to land. Zero means no cap.
	MaxSteps uint64
	// PoolSize is the number of evaluations allowed to run in parallel.
	PoolSize int
}

// DefaultConfig provides sensible defaults for untrusted scripts.
func DefaultConfig() Config {
	return Config{
		// 5 second default timeout
		Timeout: 5 * time.Second,
		// ~10M interpreter steps; far beyond any reasonable snippet
		MaxSteps: 10_000_000,
		PoolSize: 4,
	}
}
