package rxgo

import "time"

// Just emits each of values in order, then completes.
func Just(values ...interface{}) Observable {
	return Create(func(observer Observer) Disposable {
		for _, v := range values {
			observer.OnNext(v)
		}
		observer.OnCompleted()
		return Disposed()
	})
}

// Empty emits nothing and completes immediately.
func Empty() Observable {
	return Create(func(observer Observer) Disposable {
		observer.OnCompleted()
		return Disposed()
	})
}

// Never emits nothing and never terminates.
func Never() Observable {
	return Create(func(observer Observer) Disposable {
		return Disposed()
	})
}

// Throw emits only err and terminates.
func Throw(err error) Observable {
	return Create(func(observer Observer) Disposable {
		observer.OnError(err)
		return Disposed()
	})
}

// Range emits count consecutive ints starting at start, then completes.
func Range(start, count int) Observable {
	return Create(func(observer Observer) Disposable {
		for i := 0; i < count; i++ {
			observer.OnNext(start + i)
		}
		observer.OnCompleted()
		return Disposed()
	})
}

// FromSlice emits every element of values in order, then completes.
func FromSlice(values []interface{}) Observable {
	return Create(func(observer Observer) Disposable {
		for _, v := range values {
			observer.OnNext(v)
		}
		observer.OnCompleted()
		return Disposed()
	})
}

// FromChannel drains ch, emitting every received value, and completes when
// ch is closed. Disposing the subscription does not stop the drain early:
// it blocks until ch has been closed and fully drained.
func FromChannel(ch <-chan interface{}) Observable {
	return Create(func(observer Observer) Disposable {
		done := make(chan struct{})
		go func() {
			defer close(done)
			for v := range ch {
				observer.OnNext(v)
			}
			observer.OnCompleted()
		}()
		return NewDisposable(func() { <-done })
	})
}

// Defer calls factory anew for every subscription, rather than sharing one
// Observable instance across subscribers.
func Defer(factory func() Observable) Observable {
	return Create(func(observer Observer) Disposable {
		var source Observable
		err := SafeExecute(func() { source = factory() })
		if err != nil {
			observer.OnError(err)
			return Disposed()
		}
		return source.Subscribe(observer)
	})
}

// Interval emits successive ints (0, 1, 2, ...) every period, on scheduler.
func Interval(period time.Duration, scheduler Scheduler) Observable {
	return Create(func(observer Observer) Disposable {
		counter := 0
		composite := NewCompositeDisposable()
		var tick func()
		tick = func() {
			observer.OnNext(counter)
			counter++
			composite.Add(scheduler.ScheduleAfter(period, tick))
		}
		composite.Add(scheduler.ScheduleAfter(period, tick))
		return composite
	})
}

// Timer emits a single 0 after delay elapses on scheduler, then completes.
func Timer(delay time.Duration, scheduler Scheduler) Observable {
	return Create(func(observer Observer) Disposable {
		return scheduler.ScheduleAfter(delay, func() {
			observer.OnNext(0)
			observer.OnCompleted()
		})
	})
}

// Start runs fn on scheduler and emits its single return value, or delivers
// a panic recovered from fn as on_error — the async analogue of calling a
// plain function and wrapping the result in Just.
func Start(fn func() interface{}, scheduler Scheduler) Observable {
	return Create(func(observer Observer) Disposable {
		return scheduler.Schedule(func() {
			var result interface{}
			err := SafeExecute(func() { result = fn() })
			if err != nil {
				observer.OnError(err)
				return
			}
			observer.OnNext(result)
			observer.OnCompleted()
		})
	})
}

// ToAsync adapts a synchronous function into a callable that, on each
// invocation, schedules a single execution of fn and posts its result (or
// panic-turned-error) into a fresh AsyncSubject — every subscriber to the
// returned Observable shares that one execution's cached outcome, rather
// than each subscription re-running fn the way a plain Create-backed
// Observable would.
func ToAsync(fn func(args ...interface{}) interface{}, scheduler Scheduler) func(args ...interface{}) Observable {
	return func(args ...interface{}) Observable {
		subject := NewAsyncSubject()
		scheduler.Schedule(func() {
			var result interface{}
			err := SafeExecute(func() { result = fn(args...) })
			if err != nil {
				subject.OnError(err)
				return
			}
			subject.OnNext(result)
			subject.OnCompleted()
		})
		return subject
	}
}
