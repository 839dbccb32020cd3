package rxgo

import (
	"sync"
	"time"
)

// Delay shifts on_next and on_completed from source later by duration,
// scheduled on scheduler rather than a bare time.Sleep so it can be driven
// by a TestScheduler's virtual clock in tests. on_error bypasses the delay
// entirely and is forwarded immediately, so a subscriber never waits
// duration to learn that source failed.
func Delay(source Observable, duration time.Duration, scheduler Scheduler) Observable {
	return Create(func(observer Observer) Disposable {
		composite := NewCompositeDisposable()
		composite.Add(source.Subscribe(NewObserver(
			func(value interface{}) {
				composite.Add(scheduler.ScheduleAfter(duration, func() { observer.OnNext(value) }))
			},
			func() {
				composite.Add(scheduler.ScheduleAfter(duration, observer.OnCompleted))
			},
			func(err error) {
				observer.OnError(err)
			},
		)))
		return composite
	})
}

// Throttle (debounce) forwards a value only after duration has elapsed
// with no further value arriving — every new value resets the timer and
// supersedes the previous one, which is dropped. Grounded on the same
// "latest wins, timer resets on every arrival" semantics as the original's
// debounce-style throttle, distinct from LimitWindow's one-per-duration
// gate. Upstream completion flushes the still-pending value, if any,
// before completing — it is never silently dropped.
func Throttle(source Observable, duration time.Duration, scheduler Scheduler) Observable {
	return Create(func(observer Observer) Disposable {
		var mu sync.Mutex
		pending := NewSerialDisposable()
		var generation int64
		var pendingValue interface{}
		hasPending := false

		composite := NewCompositeDisposable(pending)
		composite.Add(source.Subscribe(NewObserver(
			func(value interface{}) {
				mu.Lock()
				generation++
				gen := generation
				pendingValue = value
				hasPending = true
				mu.Unlock()
				pending.Set(scheduler.ScheduleAfter(duration, func() {
					mu.Lock()
					fire := gen == generation
					if fire {
						hasPending = false
					}
					mu.Unlock()
					if fire {
						observer.OnNext(value)
					}
				}))
			},
			func() {
				mu.Lock()
				flush := hasPending
				value := pendingValue
				hasPending = false
				mu.Unlock()
				pending.Dispose()
				if flush {
					observer.OnNext(value)
				}
				observer.OnCompleted()
			},
			func(err error) {
				pending.Dispose()
				observer.OnError(err)
			},
		)))
		return composite
	})
}

// Timeout terminates with a *NoSuchElementError if no value (or the
// completion/error signal) arrives from source within duration of the
// previous signal, or of subscription if none has arrived yet.
func Timeout(source Observable, duration time.Duration, scheduler Scheduler) Observable {
	return Create(func(observer Observer) Disposable {
		var mu sync.Mutex
		var generation int64
		var terminated bool
		watchdog := NewSerialDisposable()

		armWatchdog := func() {
			mu.Lock()
			generation++
			gen := generation
			mu.Unlock()
			watchdog.Set(scheduler.ScheduleAfter(duration, func() {
				mu.Lock()
				if terminated || gen != generation {
					mu.Unlock()
					return
				}
				terminated = true
				mu.Unlock()
				observer.OnError(NewNoSuchElementError("Timeout: no signal received within the configured duration"))
			}))
		}

		armWatchdog()
		composite := NewCompositeDisposable(watchdog)
		composite.Add(source.Subscribe(NewObserver(
			func(value interface{}) {
				mu.Lock()
				if terminated {
					mu.Unlock()
					return
				}
				mu.Unlock()
				observer.OnNext(value)
				armWatchdog()
			},
			func() {
				mu.Lock()
				if terminated {
					mu.Unlock()
					return
				}
				terminated = true
				mu.Unlock()
				watchdog.Dispose()
				observer.OnCompleted()
			},
			func(err error) {
				mu.Lock()
				if terminated {
					mu.Unlock()
					return
				}
				terminated = true
				mu.Unlock()
				watchdog.Dispose()
				observer.OnError(err)
			},
		)))
		return composite
	})
}
