package services

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherRunsSubmittedTasks(t *testing.T) {
	dispatcher := NewDispatcher(2)

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		dispatcher.Submit(func() {
			defer wg.Done()
			ran.Add(1)
		})
	}
	wg.Wait()
	dispatcher.StopWait()

	assert.Equal(t, int32(10), ran.Load())
}

func TestDispatcherContainsPanics(t *testing.T) {
	dispatcher := NewDispatcher(1)

	var ran atomic.Bool
	dispatcher.Submit(func() {
		panic("handler blew up")
	})
	dispatcher.Submit(func() {
		ran.Store(true)
	})
	dispatcher.StopWait()

	assert.True(t, ran.Load(), "a panicking task must not take the worker down")
}

func TestDispatcherSubmitDoesNotBlockOnSlowTasks(t *testing.T) {
	dispatcher := NewDispatcher(1)
	defer dispatcher.StopWait()

	release := make(chan struct{})
	dispatcher.Submit(func() {
		<-release
	})

	// The single worker is occupied; further submissions must still return.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			dispatcher.Submit(func() {})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked while the worker was busy")
	}
	close(release)
}
