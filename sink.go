package rxgo

import "sync"

// sink is the per-subscription observer half of the producer/sink
// skeleton shared by stateful operators (Scan, RefCount). It holds the
// downstream observer under a lock alongside a cancel disposable; on a
// terminal signal it delivers downstream then disposes cancel. After
// dispose, the downstream reference is swapped to a no-op so concurrent
// signal attempts are absorbed safely rather than racing a nil pointer.
type sink struct {
	mu       sync.Mutex
	observer Observer
	cancel   Disposable
}

func newSink(observer Observer, cancel Disposable) *sink {
	return &sink{observer: observerOrNoop(observer), cancel: cancel}
}

func (s *sink) current() Observer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observer
}

func (s *sink) OnNext(value interface{}) {
	s.current().OnNext(value)
}

func (s *sink) OnCompleted() {
	s.mu.Lock()
	observer := s.observer
	s.observer = NoopObserver
	s.mu.Unlock()
	observer.OnCompleted()
	s.cancel.Dispose()
}

func (s *sink) OnError(err error) {
	s.mu.Lock()
	observer := s.observer
	s.observer = NoopObserver
	s.mu.Unlock()
	observer.OnError(err)
	s.cancel.Dispose()
}

// Dispose tears the sink down without delivering a terminal signal
// downstream — used when an upstream disposable is cancelled directly
// rather than completing or erroring.
func (s *sink) Dispose() {
	s.mu.Lock()
	s.observer = NoopObserver
	s.mu.Unlock()
	s.cancel.Dispose()
}

// IsDisposed reports whether the sink has already delivered a terminal
// signal or been disposed directly, so it satisfies Disposable and can be
// registered with a producer's setSink alongside its own cancel chain.
func (s *sink) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observer == NoopObserver
}

// setSink lets a producer's run function install the sink's own
// disposable (so the sink can tear itself down independently of the
// producer-level composite) before returning its upstream subscription.
type setSinkFunc func(Disposable)

// runFunc performs upstream subscription(s) for a producer and returns the
// disposable that cancels them; setSink registers the sink's own teardown
// alongside it.
type runFunc func(observer Observer, cancel Disposable, setSink setSinkFunc) Disposable

// newProducer builds an Observable using the producer half of the
// skeleton: on subscribe it allocates a CompositeDisposable as cancel,
// invokes run to perform the upstream work, and folds both the sink's own
// disposable and run's returned disposable into that composite.
func newProducer(run runFunc) Observable {
	return Create(func(observer Observer) Disposable {
		cancel := NewCompositeDisposable()
		var setSink setSinkFunc = func(d Disposable) { cancel.Add(d) }
		upstream := run(observer, cancel, setSink)
		cancel.Add(upstream)
		return cancel
	})
}
