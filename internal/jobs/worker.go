package jobs

import (
	"context"
	"log"
	"time"
)

// JobProcessor is one unit of periodic maintenance work.
type JobProcessor interface {
	ProcessJobs(ctx context.Context) error
}

// Worker drives a JobProcessor on a fixed poll interval until stopped. The
// server runs one Worker per maintenance concern, so each carries a name for
// its log lines.
type Worker struct {
	name         string
	processor    JobProcessor
	pollInterval time.Duration
	stopChan     chan struct{}
	doneChan     chan struct{}
}

func NewWorker(name string, processor JobProcessor, pollInterval time.Duration) *Worker {
	return &Worker{
		name:         name,
		processor:    processor,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Start begins the polling loop. It returns when the context is cancelled or
// Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	defer close(w.doneChan)

	log.Printf("jobs: %s worker started, interval %v", w.name, w.pollInterval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("jobs: %s worker stopped: context cancelled", w.name)
			return
		case <-w.stopChan:
			log.Printf("jobs: %s worker stopped", w.name)
			return
		case <-ticker.C:
			if err := w.processor.ProcessJobs(ctx); err != nil {
				log.Printf("jobs: %s worker: %v", w.name, err)
			}
		}
	}
}

// Stop signals the worker and waits for the loop to exit.
func (w *Worker) Stop() {
	close(w.stopChan)
	<-w.doneChan
}
