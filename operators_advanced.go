package rxgo

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SubscribeOn moves the act of subscribing to source onto scheduler, rather
// than running the upstream subscribe function on the calling goroutine.
func SubscribeOn(source Observable, scheduler Scheduler) Observable {
	return Create(func(observer Observer) Disposable {
		sub := NewSerialDisposable()
		sub.Set(scheduler.Schedule(func() {
			sub.Set(source.Subscribe(observer))
		}))
		return NewScheduledDisposable(scheduler, sub)
	})
}

// observeOnDispatcher is a FIFO queue drained by a single goroutine, so
// every signal delivered through it reaches the downstream observer in the
// order it arrived even though producers may call in from other goroutines.
type observeOnDispatcher struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	closed  bool
}

func newObserveOnDispatcher() *observeOnDispatcher {
	d := &observeOnDispatcher{}
	d.cond = sync.NewCond(&d.mu)
	go d.loop()
	return d
}

func (d *observeOnDispatcher) loop() {
	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 && d.closed {
			d.mu.Unlock()
			return
		}
		task := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()
		task()
	}
}

func (d *observeOnDispatcher) enqueue(task func()) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.queue = append(d.queue, task)
	d.cond.Signal()
	d.mu.Unlock()
}

func (d *observeOnDispatcher) close() {
	d.mu.Lock()
	d.closed = true
	d.cond.Signal()
	d.mu.Unlock()
}

// ObserveOn moves delivery of source's signals onto a dedicated dispatcher
// goroutine, preserving arrival order — used to move work off of a
// producer's own goroutine (e.g. a network read loop) and onto one the
// downstream observer can block in freely.
func ObserveOn(source Observable) Observable {
	return Create(func(observer Observer) Disposable {
		dispatcher := newObserveOnDispatcher()
		sub := source.Subscribe(NewObserver(
			func(value interface{}) { dispatcher.enqueue(func() { observer.OnNext(value) }) },
			func() { dispatcher.enqueue(func() { observer.OnCompleted(); dispatcher.close() }) },
			func(err error) { dispatcher.enqueue(func() { observer.OnError(err); dispatcher.close() }) },
		))
		return NewDisposable(func() {
			sub.Dispose()
			dispatcher.close()
		})
	})
}

// ObserveOnDispatcher is a host-pumped FIFO queue: instead of draining
// itself on an internal goroutine, it queues every signal from its source
// and waits for the host application to call DispatchOne or TryDispatch,
// the way a GUI event loop or a single-threaded reactor pumps its own
// queue rather than handing control to a library-owned thread.
type ObserveOnDispatcher struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
}

// NewObserveOnDispatcher returns an empty dispatcher, not yet attached to
// any source.
func NewObserveOnDispatcher() *ObserveOnDispatcher {
	return &ObserveOnDispatcher{}
}

func (d *ObserveOnDispatcher) enqueue(task func()) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.queue = append(d.queue, task)
	d.mu.Unlock()
}

func (d *ObserveOnDispatcher) close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// DispatchOne runs the single oldest queued task, if any, and reports
// whether it found one to run. The host calls this from its own loop; no
// goroutine inside the dispatcher ever runs a task on its own.
func (d *ObserveOnDispatcher) DispatchOne() bool {
	d.mu.Lock()
	if len(d.queue) == 0 {
		d.mu.Unlock()
		return false
	}
	task := d.queue[0]
	d.queue = d.queue[1:]
	d.mu.Unlock()
	task()
	return true
}

// TryDispatch drains every task queued so far, in arrival order, and
// reports how many it ran. Tasks enqueued while it is draining are
// included, since each iteration re-checks the queue before stopping.
func (d *ObserveOnDispatcher) TryDispatch() int {
	n := 0
	for d.DispatchOne() {
		n++
	}
	return n
}

// ObserveOnDispatcherObservable subscribes to source and queues every
// signal onto dispatcher instead of delivering it inline; nothing reaches
// observer until the host drains dispatcher via DispatchOne or
// TryDispatch. This is the out-of-band counterpart to ObserveOn, for a host
// that wants to own the pump loop itself rather than ceding it to a
// library-spawned goroutine. Once the subscription is disposed, tasks still
// queued for it deliver nothing.
func ObserveOnDispatcherObservable(source Observable, dispatcher *ObserveOnDispatcher) Observable {
	return Create(func(observer Observer) Disposable {
		cancelled := NewDisposable(func() {})
		deliver := func(task func()) {
			dispatcher.enqueue(func() {
				if !cancelled.IsDisposed() {
					task()
				}
			})
		}
		sub := source.Subscribe(NewObserver(
			func(value interface{}) { deliver(func() { observer.OnNext(value) }) },
			func() { deliver(func() { observer.OnCompleted(); dispatcher.close() }) },
			func(err error) { deliver(func() { observer.OnError(err); dispatcher.close() }) },
		))
		return NewDisposable(func() {
			cancelled.Dispose()
			sub.Dispose()
			dispatcher.close()
		})
	})
}

// LimitWindow forwards at most one value per duration d, dropping every
// value that arrives before the previous one's window has elapsed. It
// compares against a dueTime stamped from time.Now() on each admitted
// value — a pure monotonic-clock gate with no Scheduler involved, so it
// keeps working the same way whether source calls in from a timer, a
// network goroutine, or a tight loop.
func LimitWindow(source Observable, d time.Duration) Observable {
	return Create(func(observer Observer) Disposable {
		var mu sync.Mutex
		var dueTime time.Time

		return source.Subscribe(NewObserver(
			func(value interface{}) {
				now := time.Now()
				mu.Lock()
				admit := now.After(dueTime) || now.Equal(dueTime)
				if admit {
					dueTime = now.Add(d)
				}
				mu.Unlock()
				if admit {
					observer.OnNext(value)
				}
			},
			observer.OnCompleted,
			observer.OnError,
		))
	})
}

// LimitWindowRated is LimitWindow's token-bucket cousin: instead of a hard
// per-window cap it admits values at a steady rate with a burst allowance,
// via golang.org/x/time/rate. Values arriving faster than the rate allows
// are dropped rather than queued, matching LimitWindow's drop semantics.
func LimitWindowRated(source Observable, r rate.Limit, burst int) Observable {
	return Create(func(observer Observer) Disposable {
		limiter := rate.NewLimiter(r, burst)
		return source.Subscribe(NewObserver(
			func(value interface{}) {
				if limiter.Allow() {
					observer.OnNext(value)
				}
			},
			observer.OnCompleted,
			observer.OnError,
		))
	})
}
