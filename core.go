// Package rxgo implements a push-based reactive-streams kernel: observables,
// observers, disposables, schedulers, and the subject/connectable machinery
// that lets a single upstream subscription fan out to many downstream
// consumers.
package rxgo

import "sync/atomic"

// Observer is a sink accepting on_next any number of times, followed by at
// most one of on_completed or on_error. Once a terminal signal has been
// delivered, no further signal of any kind may be delivered to the same
// Observer — every wrapper in this package (auto-detach, sinks, subjects)
// exists to enforce that.
type Observer interface {
	OnNext(value interface{})
	OnError(err error)
	OnCompleted()
}

// OnNextFunc, OnErrorFunc and OnCompletedFunc are the building blocks of a
// functional Observer, mirroring the free-function subscribe sugar.
type OnNextFunc func(value interface{})
type OnErrorFunc func(err error)
type OnCompletedFunc func()

// Predicate, Transformer and Reducer name the user-supplied callbacks that
// Where/Select/Scan and friends take. Any panic out of one of these is
// caught at the call site and delivered as on_error.
type Predicate func(value interface{}) bool
type Transformer func(value interface{}) interface{}
type Reducer func(accumulator, value interface{}) interface{}

type funcObserver struct {
	onNext      OnNextFunc
	onError     OnErrorFunc
	onCompleted OnCompletedFunc
}

// NewObserver builds an Observer from individual callbacks; any of them may
// be nil.
func NewObserver(onNext OnNextFunc, onCompleted OnCompletedFunc, onError OnErrorFunc) Observer {
	return &funcObserver{onNext: onNext, onCompleted: onCompleted, onError: onError}
}

func (f *funcObserver) OnNext(value interface{}) {
	if f.onNext != nil {
		f.onNext(value)
	}
}

func (f *funcObserver) OnError(err error) {
	if f.onError != nil {
		f.onError(err)
	}
}

func (f *funcObserver) OnCompleted() {
	if f.onCompleted != nil {
		f.onCompleted()
	}
}

type noopObserverType struct{}

func (noopObserverType) OnNext(interface{}) {}
func (noopObserverType) OnError(error)      {}
func (noopObserverType) OnCompleted()       {}

// NoopObserver substitutes for a nil Observer passed to Subscribe, keeping
// subject iteration and tombstone bookkeeping simple (see SPEC_FULL.md §13,
// "null observer on subscribe").
var NoopObserver Observer = noopObserverType{}

func observerOrNoop(o Observer) Observer {
	if o == nil {
		return NoopObserver
	}
	return o
}

// autoDetachObserver is the mechanical enforcer of the Rx contract: the
// first terminal signal marks it terminated and, once delivered (or once
// its delivery panics), disposes the subscription, so late values and
// duplicate terminal signals become no-ops.
type autoDetachObserver struct {
	inner        Observer
	terminated   int32
	subscription *SerialDisposable
}

func newAutoDetachObserver(inner Observer) *autoDetachObserver {
	return &autoDetachObserver{
		inner:        observerOrNoop(inner),
		subscription: NewSerialDisposable(),
	}
}

func (a *autoDetachObserver) setDisposable(d Disposable) {
	a.subscription.Set(d)
}

func (a *autoDetachObserver) OnNext(value interface{}) {
	if atomic.LoadInt32(&a.terminated) != 0 {
		return
	}
	a.inner.OnNext(value)
}

func (a *autoDetachObserver) OnCompleted() {
	if !atomic.CompareAndSwapInt32(&a.terminated, 0, 1) {
		return
	}
	defer a.subscription.Dispose()
	a.inner.OnCompleted()
}

func (a *autoDetachObserver) OnError(err error) {
	if !atomic.CompareAndSwapInt32(&a.terminated, 0, 1) {
		return
	}
	defer a.subscription.Dispose()
	a.inner.OnError(err)
}

func (a *autoDetachObserver) asDisposable() Disposable {
	return a.subscription
}

// SafeExecute runs fn, recovering a panic into an error rather than letting
// it unwind across an operator boundary. Used at subscribe-time and inside
// user-supplied selectors/predicates/accumulators.
func SafeExecute(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = WrapPanic(r)
		}
	}()
	fn()
	return nil
}

// Config holds the functional-options configuration accepted by
// NewThreadPoolScheduler, NewMonitoredScheduler and Cron. There is no
// config file or environment variable surface — see SPEC_FULL.md §10.
type Config struct {
	Scheduler  Scheduler
	Logger     Logger
	BufferSize int
}

// Option mutates a Config during construction.
type Option func(*Config)

// WithConfigScheduler overrides the scheduler a constructor would otherwise
// default to.
func WithConfigScheduler(s Scheduler) Option {
	return func(c *Config) { c.Scheduler = s }
}

// WithConfigLogger attaches a lifecycle logger to a single constructed
// instance, overriding the package-wide default from SetLogger.
func WithConfigLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithConfigBufferSize records a channel/queue capacity in Config.BufferSize.
// No scheduler or operator in this package reads that field.
func WithConfigBufferSize(n int) Option {
	return func(c *Config) { c.BufferSize = n }
}

// DefaultConfig returns a Config seeded with the package-wide logger and no
// explicit scheduler (Cron then falls back to NewGoroutine).
func DefaultConfig() *Config {
	return &Config{Logger: currentLogger()}
}

func applyOptions(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
