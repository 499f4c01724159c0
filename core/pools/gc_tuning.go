package pools

import (
	"runtime"
	"runtime/debug"
)

// GCConfig holds GC tuning parameters for a server that parses request
// heads on every read but otherwise avoids allocating: most garbage a
// default GOGC would collect aggressively here is pool churn, not
// genuine short-lived parse-path allocation, so trading some resident
// memory for fewer GC pauses is the right tradeoff for this engine.
type GCConfig struct {
	// GOGC sets the garbage collection target percentage. Default is
	// 100. Lower values mean more frequent GC but less memory.
	GOGC int

	// MinRetainExtra is extra memory forced into the heap at startup to
	// raise the baseline GC threshold, reducing early-run GC frequency
	// before steady-state pool reuse kicks in.
	MinRetainExtra int64
}

// gcBallast keeps the MinRetainExtra allocation reachable for the life
// of the process.
var gcBallast []byte

// ApplyGCConfig applies GC tuning to reduce GC pressure.
func ApplyGCConfig(cfg GCConfig) {
	if cfg.GOGC > 0 {
		debug.SetGCPercent(cfg.GOGC)
	}

	if cfg.MinRetainExtra > 0 {
		runtime.GC()
		gcBallast = make([]byte, cfg.MinRetainExtra)
	}
}

// OptimizeForHighThroughput applies GC settings tuned for a busy
// listener: infrequent collection and a 100MB baseline so the byte,
// buffer, and connection pools in this package get to steady state
// before the first GC cycle runs.
func OptimizeForHighThroughput() {
	ApplyGCConfig(GCConfig{
		GOGC:           300,
		MinRetainExtra: 100 << 20,
	})
}
