package rxgo

import (
	"context"
	"sync/atomic"
	"time"

	retry "github.com/avast/retry-go/v4"
)

// Catch subscribes to source, and if it errors, switches to the Observable
// produced by handler instead of propagating that error downstream.
func Catch(source Observable, handler func(err error) Observable) Observable {
	return Create(func(observer Observer) Disposable {
		sub := NewSerialDisposable()
		sub.Set(source.Subscribe(NewObserver(
			observer.OnNext,
			observer.OnCompleted,
			func(err error) {
				var fallback Observable
				handlerErr := SafeExecute(func() { fallback = handler(err) })
				if handlerErr != nil {
					observer.OnError(handlerErr)
					return
				}
				sub.Set(fallback.Subscribe(observer))
			},
		)))
		return sub
	})
}

// Retry subscribes to source at most attempts times in total, the first
// subscription included (attempts <= 0 means unlimited), resubscribing
// whenever it errors and forwarding values as they arrive; once
// source completes without erroring, or the attempt budget runs out, the
// final outcome is forwarded.
func Retry(source Observable, attempts int) Observable {
	return Create(func(observer Observer) Disposable {
		var tried int64
		sub := NewSerialDisposable()
		var subscribeOnce func()
		subscribeOnce = func() {
			sub.Set(source.Subscribe(NewObserver(
				observer.OnNext,
				observer.OnCompleted,
				func(err error) {
					n := atomic.AddInt64(&tried, 1)
					if attempts > 0 && n >= int64(attempts) {
						observer.OnError(&RetryExhaustedError{Attempts: int(n), Last: err})
						return
					}
					subscribeOnce()
				},
			)))
		}
		subscribeOnce()
		return sub
	})
}

// RetryWithBackoff runs fn (a single synchronous attempt producing a value)
// through github.com/avast/retry-go/v4 with exponential backoff, emitting
// the eventual successful result or the accumulated RetryExhaustedError.
// This is the supplemental, backoff-aware counterpart to Retry, which only
// resubscribes an Observable without any delay between attempts.
func RetryWithBackoff(fn func() (interface{}, error), attempts uint, delay time.Duration, scheduler Scheduler) Observable {
	return Create(func(observer Observer) Disposable {
		composite := NewCompositeDisposable()
		composite.Add(scheduler.Schedule(func() {
			var result interface{}
			var lastErr error
			err := retry.Do(
				func() error {
					r, e := fn()
					if e != nil {
						lastErr = e
						return e
					}
					result = r
					return nil
				},
				retry.Attempts(attempts),
				retry.Delay(delay),
				retry.Context(context.Background()),
			)
			if err != nil {
				observer.OnError(&RetryExhaustedError{Attempts: int(attempts), Last: lastErr})
				return
			}
			observer.OnNext(result)
			observer.OnCompleted()
		}))
		return composite
	})
}

// OnErrorReturn substitutes value for an error from source, completing
// immediately afterward instead of propagating the error.
func OnErrorReturn(source Observable, value interface{}) Observable {
	return Create(func(observer Observer) Disposable {
		return source.Subscribe(NewObserver(
			observer.OnNext,
			observer.OnCompleted,
			func(error) {
				observer.OnNext(value)
				observer.OnCompleted()
			},
		))
	})
}

// OnErrorResumeNext switches to fallback when source errors, without
// forwarding the original error at all — unlike Catch, the handler has no
// access to the error value.
func OnErrorResumeNext(source, fallback Observable) Observable {
	return Catch(source, func(error) Observable { return fallback })
}
