package analytics

import (
	"sync"
	"time"
)

// Task is a handle to scheduled work.
type Task interface {
	// Cancel stops the task and returns once its callback can no longer run.
	// Calling it more than once is safe.
	Cancel()
}

// Scheduler starts cancellable timed work.
type Scheduler interface {
	// Every runs fn every interval until the task is cancelled.
	Every(interval time.Duration, fn func()) Task
	// After runs fn once after d unless the task is cancelled first.
	After(d time.Duration, fn func()) Task
}

// TickerScheduler runs tasks on their own goroutine backed by time.Ticker.
type TickerScheduler struct{}

func (TickerScheduler) Every(interval time.Duration, fn func()) Task {
	t := newLoopTask()
	go func() {
		defer close(t.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return t
}

func (TickerScheduler) After(d time.Duration, fn func()) Task {
	t := newLoopTask()
	go func() {
		defer close(t.done)

		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-t.stop:
		case <-timer.C:
			fn()
		}
	}()
	return t
}

type loopTask struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newLoopTask() *loopTask {
	return &loopTask{stop: make(chan struct{}), done: make(chan struct{})}
}

func (t *loopTask) Cancel() {
	t.once.Do(func() { close(t.stop) })
	<-t.done
}
