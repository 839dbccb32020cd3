package rxgo

import "sync"

// BlockingSubscribe subscribes to source and blocks the calling goroutine
// until it terminates, delivering signals to the given callbacks as they
// arrive. It returns the error source terminated with, or nil if it
// completed normally.
func BlockingSubscribe(source Observable, onNext OnNextFunc, onCompleted OnCompletedFunc, onError OnErrorFunc) error {
	done := make(chan struct{})
	var outcome error
	source.Subscribe(NewObserver(
		func(value interface{}) {
			if onNext != nil {
				onNext(value)
			}
		},
		func() {
			if onCompleted != nil {
				onCompleted()
			}
			close(done)
		},
		func(err error) {
			outcome = err
			if onError != nil {
				onError(err)
			}
			close(done)
		},
	))
	<-done
	return outcome
}

// BlockingFirst blocks until source produces its first value (or
// terminates without one) and returns it.
func BlockingFirst(source Observable) (interface{}, error) {
	return blockingSingle(First(source))
}

// BlockingLast blocks until source completes and returns the final value
// it produced.
func BlockingLast(source Observable) (interface{}, error) {
	return blockingSingle(Last(source))
}

func blockingSingle(source Observable) (interface{}, error) {
	done := make(chan struct{})
	var value interface{}
	var err error
	source.Subscribe(NewObserver(
		func(v interface{}) { value = v },
		func() { close(done) },
		func(e error) { err = e; close(done) },
	))
	<-done
	return value, err
}

// ForEach blocks the calling goroutine until source terminates, delivering
// every value to onNext as it arrives and returning the error it
// terminated with (nil on normal completion). It is built on a mutex and
// condition variable, mirroring the original's for_each rather than a
// done-channel, so it composes with code that already holds other locks
// guarded by the same discipline.
func ForEach(source Observable, onNext OnNextFunc) error {
	var mu sync.Mutex
	cond := sync.NewCond(&mu)
	finished := false
	var outcome error

	source.Subscribe(NewObserver(
		func(value interface{}) {
			if onNext != nil {
				onNext(value)
			}
		},
		func() {
			mu.Lock()
			finished = true
			cond.Signal()
			mu.Unlock()
		},
		func(err error) {
			mu.Lock()
			finished = true
			outcome = err
			cond.Signal()
			mu.Unlock()
		},
	))

	mu.Lock()
	for !finished {
		cond.Wait()
	}
	mu.Unlock()
	return outcome
}
