package services

import (
	"sangobot/core"
	"sangobot/core/log"

	"github.com/gammazero/workerpool"
)

// Dispatcher fans accepted events out to their handler chains so a slow
// handler can never stall ingestion of subsequent events. Task failures are
// observed only via logging, never via a result to the submitter.
type Dispatcher struct {
	pool *workerpool.WorkerPool
}

func NewDispatcher(workers int) *Dispatcher {
	return &Dispatcher{pool: workerpool.New(workers)}
}

// Submit queues one event's chain run and returns immediately. A panic
// inside the task is contained to that dispatch.
func (d *Dispatcher) Submit(task func()) {
	taskID := core.NewID("task")
	d.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("💥 Dispatch %s panicked: %v", taskID, r)
			}
		}()
		task()
	})
}

// StopWait drains queued dispatches and stops the pool.
func (d *Dispatcher) StopWait() {
	d.pool.StopWait()
}
