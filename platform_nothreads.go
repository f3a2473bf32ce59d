//go:build js || wasip1

package jobsystem

// Goroutines on these targets share a single host thread, so jobs run
// inline on the submitting goroutine.
const threadsAvailable = false
