package mdkatex

import "runtime"

// Worker pool sizing constants.
const (
	// MinWorkers ensures at least one engine instance is available.
	MinWorkers = 1

	// MaxWorkers caps engine instances to limit memory (each owns a
	// browser process).
	MaxWorkers = 8

	// cpuDivisor leaves headroom for browser child processes.
	cpuDivisor = 2
)

// ResolveWorkers determines the render worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware when automaxprocs is active in main.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
