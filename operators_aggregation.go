package rxgo

import "sync/atomic"

// Take forwards at most count values, then completes and cancels upstream.
// A counter of received values decides which values are forwarded, and a
// separate terminus flag makes sure exactly one terminal signal is
// delivered, so an upstream completion or error arriving after the count-th
// value is absorbed.
func Take(source Observable, count int) Observable {
	if count <= 0 {
		return Empty()
	}
	return Create(func(observer Observer) Disposable {
		var delivered int64
		var terminus int32
		sub := NewSerialDisposable()
		inner := source.Subscribe(NewObserver(
			func(value interface{}) {
				n := atomic.AddInt64(&delivered, 1)
				if n > int64(count) {
					return
				}
				observer.OnNext(value)
				if n == int64(count) && atomic.CompareAndSwapInt32(&terminus, 0, 1) {
					observer.OnCompleted()
					sub.Dispose()
				}
			},
			func() {
				if atomic.CompareAndSwapInt32(&terminus, 0, 1) {
					observer.OnCompleted()
				}
			},
			func(err error) {
				if atomic.CompareAndSwapInt32(&terminus, 0, 1) {
					observer.OnError(err)
				}
			},
		))
		sub.Set(inner)
		return sub
	})
}

// TakeUntil forwards values from source until notifier signals for the
// first time (a value, completion or error). The next signal from source
// after that is not forwarded: it completes the result instead, and both
// subscriptions are cancelled.
func TakeUntil(source, notifier Observable) Observable {
	return Create(func(observer Observer) Disposable {
		var terminus int32
		var notified int32
		composite := NewCompositeDisposable()

		stop := func() {
			if atomic.CompareAndSwapInt32(&terminus, 0, 1) {
				observer.OnCompleted()
				composite.Dispose()
			}
		}
		notify := func() { atomic.StoreInt32(&notified, 1) }

		composite.Add(notifier.Subscribe(NewObserver(
			func(interface{}) { notify() },
			notify,
			func(error) { notify() },
		)))

		composite.Add(source.Subscribe(NewObserver(
			func(value interface{}) {
				if atomic.LoadInt32(&notified) != 0 {
					stop()
				} else if atomic.LoadInt32(&terminus) == 0 {
					observer.OnNext(value)
				}
			},
			stop,
			func(err error) {
				if atomic.LoadInt32(&notified) != 0 {
					stop()
				} else if atomic.CompareAndSwapInt32(&terminus, 0, 1) {
					observer.OnError(err)
					composite.Dispose()
				}
			},
		)))

		return composite
	})
}

// Skip drops the first count values from source, forwarding the rest.
func Skip(source Observable, count int) Observable {
	return Create(func(observer Observer) Disposable {
		var received int64
		return source.Subscribe(NewObserver(
			func(value interface{}) {
				n := atomic.AddInt64(&received, 1)
				if n > int64(count) {
					observer.OnNext(value)
				}
			},
			observer.OnCompleted,
			observer.OnError,
		))
	})
}

// SkipUntil drops values from source until notifier produces its first
// value, then forwards every value after that point.
func SkipUntil(source, notifier Observable) Observable {
	return Create(func(observer Observer) Disposable {
		var open int32
		composite := NewCompositeDisposable()

		composite.Add(notifier.Subscribe(NewObserver(
			func(interface{}) { atomic.StoreInt32(&open, 1) },
			func() {},
			func(err error) { observer.OnError(err) },
		)))

		composite.Add(source.Subscribe(NewObserver(
			func(value interface{}) {
				if atomic.LoadInt32(&open) != 0 {
					observer.OnNext(value)
				}
			},
			observer.OnCompleted,
			observer.OnError,
		)))

		return composite
	})
}

// DistinctUntilChanged forwards a value only if it differs from the
// immediately preceding forwarded value, using == for comparison.
func DistinctUntilChanged(source Observable) Observable {
	return Create(func(observer Observer) Disposable {
		var hasPrev bool
		var prev interface{}
		return source.Subscribe(NewObserver(
			func(value interface{}) {
				if hasPrev && prev == value {
					return
				}
				hasPrev = true
				prev = value
				observer.OnNext(value)
			},
			observer.OnCompleted,
			observer.OnError,
		))
	})
}

// Count emits the number of values source produced, once it completes.
func Count(source Observable) Observable {
	return Create(func(observer Observer) Disposable {
		var n int64
		return source.Subscribe(NewObserver(
			func(interface{}) { atomic.AddInt64(&n, 1) },
			func() {
				observer.OnNext(atomic.LoadInt64(&n))
				observer.OnCompleted()
			},
			observer.OnError,
		))
	})
}

// First emits only the first value source produces, then completes; if
// source completes without emitting, it delivers NewNoSuchElementError.
func First(source Observable) Observable {
	return Create(func(observer Observer) Disposable {
		var terminus int32
		sub := NewSerialDisposable()
		inner := source.Subscribe(NewObserver(
			func(value interface{}) {
				if atomic.CompareAndSwapInt32(&terminus, 0, 1) {
					observer.OnNext(value)
					observer.OnCompleted()
					sub.Dispose()
				}
			},
			func() {
				if atomic.CompareAndSwapInt32(&terminus, 0, 1) {
					observer.OnError(NewNoSuchElementError("First: source completed without emitting a value"))
				}
			},
			func(err error) {
				if atomic.CompareAndSwapInt32(&terminus, 0, 1) {
					observer.OnError(err)
				}
			},
		))
		sub.Set(inner)
		return sub
	})
}

// Last emits only the final value source produces, once it completes; if
// source completes without ever emitting, it delivers NewNoSuchElementError.
func Last(source Observable) Observable {
	return Create(func(observer Observer) Disposable {
		var hasValue bool
		var last interface{}
		return source.Subscribe(NewObserver(
			func(value interface{}) {
				hasValue = true
				last = value
			},
			func() {
				if !hasValue {
					observer.OnError(NewNoSuchElementError("Last: source completed without emitting a value"))
					return
				}
				observer.OnNext(last)
				observer.OnCompleted()
			},
			observer.OnError,
		))
	})
}

// Reduce folds every value from source through reducer starting from seed,
// emitting only the final accumulator once source completes.
func Reduce(source Observable, seed interface{}, reducer Reducer) Observable {
	return Create(func(observer Observer) Disposable {
		acc := seed
		return source.Subscribe(NewObserver(
			func(value interface{}) {
				var next interface{}
				err := SafeExecute(func() { next = reducer(acc, value) })
				if err != nil {
					observer.OnError(err)
					return
				}
				acc = next
			},
			func() {
				observer.OnNext(acc)
				observer.OnCompleted()
			},
			observer.OnError,
		))
	})
}

func numeric(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// Sum emits the arithmetic sum of every numeric value source produces.
func Sum(source Observable) Observable {
	return Create(func(observer Observer) Disposable {
		var total float64
		return source.Subscribe(NewObserver(
			func(value interface{}) {
				n, ok := numeric(value)
				if !ok {
					observer.OnError(NewNoSuchElementError("Sum: non-numeric value"))
					return
				}
				total += n
			},
			func() {
				observer.OnNext(total)
				observer.OnCompleted()
			},
			observer.OnError,
		))
	})
}

// Average emits the arithmetic mean of every numeric value source
// produces; completing without any value delivers NewNoSuchElementError.
func Average(source Observable) Observable {
	return Create(func(observer Observer) Disposable {
		var total float64
		var n int64
		return source.Subscribe(NewObserver(
			func(value interface{}) {
				v, ok := numeric(value)
				if !ok {
					observer.OnError(NewNoSuchElementError("Average: non-numeric value"))
					return
				}
				total += v
				n++
			},
			func() {
				if n == 0 {
					observer.OnError(NewNoSuchElementError("Average: source completed without emitting a value"))
					return
				}
				observer.OnNext(total / float64(n))
				observer.OnCompleted()
			},
			observer.OnError,
		))
	})
}

// Min emits the smallest numeric value source produces, once it completes;
// completing without any value delivers NewNoSuchElementError.
func Min(source Observable) Observable {
	return extremum(source, func(a, b float64) bool { return a < b })
}

// Max emits the largest numeric value source produces, once it completes;
// completing without any value delivers NewNoSuchElementError.
func Max(source Observable) Observable {
	return extremum(source, func(a, b float64) bool { return a > b })
}

func extremum(source Observable, better func(a, b float64) bool) Observable {
	return Create(func(observer Observer) Disposable {
		var has bool
		var bestValue interface{}
		var bestNum float64
		return source.Subscribe(NewObserver(
			func(value interface{}) {
				n, ok := numeric(value)
				if !ok {
					observer.OnError(NewNoSuchElementError("Min/Max: non-numeric value"))
					return
				}
				if !has || better(n, bestNum) {
					has = true
					bestNum = n
					bestValue = value
				}
			},
			func() {
				if !has {
					observer.OnError(NewNoSuchElementError("Min/Max: source completed without emitting a value"))
					return
				}
				observer.OnNext(bestValue)
				observer.OnCompleted()
			},
			observer.OnError,
		))
	})
}
