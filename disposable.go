package rxgo

import "sync"

// Disposable is an idempotent cancellation token. Disposing it more than
// once has the same observable effect as disposing it once.
type Disposable interface {
	Dispose()
	IsDisposed() bool
}

type disposableFunc struct {
	once sync.Once
	done bool
	mu   sync.Mutex
	fn   func()
}

// NewDisposable wraps a callback so it runs at most once. A nil callback
// is a valid no-op disposable.
func NewDisposable(fn func()) Disposable {
	return &disposableFunc{fn: fn}
}

func (d *disposableFunc) Dispose() {
	d.once.Do(func() {
		d.mu.Lock()
		d.done = true
		d.mu.Unlock()
		if d.fn != nil {
			d.fn()
		}
	})
}

func (d *disposableFunc) IsDisposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}

type noopDisposable struct{}

func (noopDisposable) Dispose()        {}
func (noopDisposable) IsDisposed() bool { return true }

// Disposed returns a disposable that reports itself already disposed.
func Disposed() Disposable { return noopDisposable{} }

// CompositeDisposable aggregates child disposables. Disposing it disposes
// every child; adding a child to an already-disposed composite disposes
// that child immediately instead of holding onto it.
type CompositeDisposable struct {
	mu       sync.Mutex
	disposed bool
	children []Disposable
}

// NewCompositeDisposable creates an empty composite, optionally seeded with
// children.
func NewCompositeDisposable(children ...Disposable) *CompositeDisposable {
	cd := &CompositeDisposable{}
	for _, c := range children {
		cd.Add(c)
	}
	return cd
}

func (cd *CompositeDisposable) Add(d Disposable) {
	if d == nil {
		return
	}
	cd.mu.Lock()
	if cd.disposed {
		cd.mu.Unlock()
		d.Dispose()
		return
	}
	cd.children = append(cd.children, d)
	cd.mu.Unlock()
}

func (cd *CompositeDisposable) Remove(d Disposable) {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	for i, c := range cd.children {
		if c == d {
			cd.children = append(cd.children[:i], cd.children[i+1:]...)
			return
		}
	}
}

func (cd *CompositeDisposable) Dispose() {
	cd.mu.Lock()
	if cd.disposed {
		cd.mu.Unlock()
		return
	}
	cd.disposed = true
	children := cd.children
	cd.children = nil
	cd.mu.Unlock()
	for _, c := range children {
		c.Dispose()
	}
}

func (cd *CompositeDisposable) IsDisposed() bool {
	cd.mu.Lock()
	defer cd.mu.Unlock()
	return cd.disposed
}

// SerialDisposable holds a single disposable slot. Assigning a new value
// disposes the previous one; assigning while the serial itself is disposed
// disposes the incoming value immediately.
type SerialDisposable struct {
	mu       sync.Mutex
	disposed bool
	current  Disposable
}

func NewSerialDisposable() *SerialDisposable {
	return &SerialDisposable{}
}

func (s *SerialDisposable) Set(d Disposable) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		if d != nil {
			d.Dispose()
		}
		return
	}
	old := s.current
	s.current = d
	s.mu.Unlock()
	if old != nil {
		old.Dispose()
	}
}

func (s *SerialDisposable) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	old := s.current
	s.current = nil
	s.mu.Unlock()
	if old != nil {
		old.Dispose()
	}
}

func (s *SerialDisposable) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// ScheduledDisposable defers disposal of the wrapped disposable to a
// scheduler, rather than running it on the calling goroutine.
type ScheduledDisposable struct {
	scheduler Scheduler
	inner     Disposable
}

func NewScheduledDisposable(scheduler Scheduler, inner Disposable) *ScheduledDisposable {
	return &ScheduledDisposable{scheduler: scheduler, inner: inner}
}

func (s *ScheduledDisposable) Dispose() {
	s.scheduler.Schedule(func() {
		s.inner.Dispose()
	})
}

func (s *ScheduledDisposable) IsDisposed() bool {
	return s.inner.IsDisposed()
}
