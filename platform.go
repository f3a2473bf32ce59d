//go:build !js && !wasip1

package jobsystem

const threadsAvailable = true
