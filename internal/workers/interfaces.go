// Package workers runs the background jobs of the sync engine.
// It defines the Worker interface and a Workers aggregate that starts and
// stops them together.
package workers

// Worker is a background job.
//
// Run starts the job and returns; the work itself happens in goroutines owned
// by the worker. Stop ends the job and waits until it has exited.
type Worker interface {
	Run()
	Stop()
}
