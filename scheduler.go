package rxgo

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Scheduler abstracts over where and when work runs. Actions scheduled with
// Schedule run as soon as possible on the scheduler; ScheduleAfter runs no
// sooner than the given delay.
type Scheduler interface {
	Schedule(action func()) Disposable
	ScheduleAfter(delay time.Duration, action func()) Disposable
	Now() time.Time
}

// --- immediate scheduler ---

type immediateScheduler struct{}

// Immediate runs every action synchronously on the calling goroutine.
var Immediate Scheduler = immediateScheduler{}

func (immediateScheduler) Schedule(action func()) Disposable {
	action()
	return Disposed()
}

func (immediateScheduler) ScheduleAfter(delay time.Duration, action func()) Disposable {
	timer := time.NewTimer(delay)
	var cancelled int32
	go func() {
		<-timer.C
		if atomic.LoadInt32(&cancelled) == 0 {
			action()
		}
	}()
	return NewDisposable(func() {
		atomic.StoreInt32(&cancelled, 1)
		timer.Stop()
	})
}

func (immediateScheduler) Now() time.Time { return time.Now() }

// --- current-thread (trampoline) scheduler ---

type currentThreadSchedulerType struct {
	mu     sync.Mutex
	active bool
	queue  []func()
}

// CurrentThreadScheduler linearizes re-entrant scheduling on the calling
// goroutine: scheduling from within an action already running on this
// scheduler enqueues rather than recurses, preventing unbounded stack
// growth on synchronous producer chains of arbitrary depth.
var CurrentThreadScheduler = &currentThreadSchedulerType{}

func (s *currentThreadSchedulerType) isScheduleRequired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.active
}

func (s *currentThreadSchedulerType) Schedule(action func()) Disposable {
	s.mu.Lock()
	if s.active {
		s.queue = append(s.queue, action)
		s.mu.Unlock()
		return Disposed()
	}
	s.active = true
	s.mu.Unlock()
	s.drain(action)
	return Disposed()
}

func (s *currentThreadSchedulerType) drain(first func()) {
	first()
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.active = false
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		next()
	}
}

func (s *currentThreadSchedulerType) ScheduleAfter(delay time.Duration, action func()) Disposable {
	timer := time.NewTimer(delay)
	var cancelled int32
	go func() {
		<-timer.C
		if atomic.LoadInt32(&cancelled) == 0 {
			s.Schedule(action)
		}
	}()
	return NewDisposable(func() {
		atomic.StoreInt32(&cancelled, 1)
		timer.Stop()
	})
}

func (s *currentThreadSchedulerType) Now() time.Time { return time.Now() }

// --- new-goroutine scheduler ---

type newGoroutineScheduler struct{}

// NewGoroutine runs every action on a freshly spawned goroutine.
var NewGoroutine Scheduler = newGoroutineScheduler{}

func (newGoroutineScheduler) Schedule(action func()) Disposable {
	var cancelled int32
	go func() {
		if atomic.LoadInt32(&cancelled) == 0 {
			action()
		}
	}()
	return NewDisposable(func() { atomic.StoreInt32(&cancelled, 1) })
}

func (newGoroutineScheduler) ScheduleAfter(delay time.Duration, action func()) Disposable {
	timer := time.NewTimer(delay)
	var cancelled int32
	go func() {
		<-timer.C
		if atomic.LoadInt32(&cancelled) == 0 {
			action()
		}
	}()
	return NewDisposable(func() {
		atomic.StoreInt32(&cancelled, 1)
		timer.Stop()
	})
}

func (newGoroutineScheduler) Now() time.Time { return time.Now() }

// --- thread pool scheduler ---

// ThreadPoolScheduler runs scheduled actions across a fixed pool of worker
// goroutines, coordinated with golang.org/x/sync/errgroup. A task that
// panics is recovered and logged through the configured Logger, and the
// worker keeps running; the panic is not reported through Dispose.
type ThreadPoolScheduler struct {
	tasks  chan func()
	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
	logger Logger
}

// NewThreadPoolScheduler starts a pool of the given size. workers <= 0 is
// clamped to 1.
func NewThreadPoolScheduler(workers int, opts ...Option) *ThreadPoolScheduler {
	if workers <= 0 {
		workers = 1
	}
	cfg := applyOptions(opts...)
	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)
	s := &ThreadPoolScheduler{
		tasks:  make(chan func(), workers*4),
		ctx:    gctx,
		cancel: cancel,
		logger: cfg.Logger,
	}
	s.group = group
	for i := 0; i < workers; i++ {
		group.Go(s.worker)
	}
	return s
}

func (s *ThreadPoolScheduler) worker() error {
	for {
		select {
		case <-s.ctx.Done():
			return nil
		case task, ok := <-s.tasks:
			if !ok {
				return nil
			}
			s.runTask(task)
		}
	}
}

func (s *ThreadPoolScheduler) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("thread pool worker recovered a panic", Err(WrapPanic(r)))
		}
	}()
	task()
}

func (s *ThreadPoolScheduler) Schedule(action func()) Disposable {
	var cancelled int32
	wrapped := func() {
		if atomic.LoadInt32(&cancelled) == 0 {
			action()
		}
	}
	select {
	case s.tasks <- wrapped:
	case <-s.ctx.Done():
	}
	return NewDisposable(func() { atomic.StoreInt32(&cancelled, 1) })
}

func (s *ThreadPoolScheduler) ScheduleAfter(delay time.Duration, action func()) Disposable {
	timer := time.NewTimer(delay)
	var cancelled int32
	go func() {
		select {
		case <-timer.C:
			if atomic.LoadInt32(&cancelled) == 0 {
				s.Schedule(action)
			}
		case <-s.ctx.Done():
		}
	}()
	return NewDisposable(func() {
		atomic.StoreInt32(&cancelled, 1)
		timer.Stop()
	})
}

func (s *ThreadPoolScheduler) Now() time.Time { return time.Now() }

// Dispose stops accepting new work and waits for every worker to return;
// tasks still queued at that point may never run. The returned error is
// always nil, since runTask recovers task panics before they reach a worker.
func (s *ThreadPoolScheduler) Dispose() error {
	s.cancel()
	return s.group.Wait()
}

// --- virtual-clock test scheduler ---

type scheduledAction struct {
	dueTime   int64
	action    func()
	cancelled *int32
}

// TestScheduler is a deterministic virtual-clock scheduler for tests of
// time-based operators (Delay, Throttle, Timeout, Interval) that must not depend
// on wall-clock sleeps.
type TestScheduler struct {
	mu    sync.Mutex
	clock int64
	queue []*scheduledAction
}

func NewTestScheduler() *TestScheduler {
	return &TestScheduler{}
}

func (s *TestScheduler) Schedule(action func()) Disposable {
	return s.ScheduleAfter(0, action)
}

func (s *TestScheduler) ScheduleAfter(delay time.Duration, action func()) Disposable {
	var cancelled int32
	s.mu.Lock()
	sa := &scheduledAction{dueTime: s.clock + int64(delay), action: action, cancelled: &cancelled}
	s.insertLocked(sa)
	s.mu.Unlock()
	return NewDisposable(func() { atomic.StoreInt32(&cancelled, 1) })
}

func (s *TestScheduler) insertLocked(sa *scheduledAction) {
	i := sort.Search(len(s.queue), func(i int) bool { return s.queue[i].dueTime > sa.dueTime })
	s.queue = append(s.queue, nil)
	copy(s.queue[i+1:], s.queue[i:])
	s.queue[i] = sa
}

func (s *TestScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Unix(0, s.clock)
}

// AdvanceTimeBy moves the virtual clock forward by d, firing every action
// due at or before the new time, in due-time order.
func (s *TestScheduler) AdvanceTimeBy(d time.Duration) {
	s.mu.Lock()
	target := s.clock + int64(d)
	s.mu.Unlock()
	s.AdvanceTimeTo(target)
}

// AdvanceTimeTo moves the virtual clock to the given absolute nanosecond
// time, firing every action due at or before it.
func (s *TestScheduler) AdvanceTimeTo(target int64) {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 || s.queue[0].dueTime > target {
			s.clock = target
			s.mu.Unlock()
			return
		}
		sa := s.queue[0]
		s.queue = s.queue[1:]
		s.clock = sa.dueTime
		s.mu.Unlock()
		if atomic.LoadInt32(sa.cancelled) == 0 {
			sa.action()
		}
	}
}

// --- monitored scheduler decorator ---

type monitoredScheduler struct {
	inner     Scheduler
	logger    Logger
	scheduled int64
	completed int64
}

// NewMonitoredScheduler wraps inner with lifecycle logging: every scheduled
// task is tagged with a correlation ID and a recovered panic is logged with
// its stack before being re-raised, so it still propagates to the
// scheduler's own panic handling (e.g. a ThreadPoolScheduler worker).
func NewMonitoredScheduler(inner Scheduler, opts ...Option) Scheduler {
	cfg := applyOptions(opts...)
	return &monitoredScheduler{inner: inner, logger: cfg.Logger}
}

func (s *monitoredScheduler) Schedule(action func()) Disposable {
	id := newCorrelationID()
	atomic.AddInt64(&s.scheduled, 1)
	s.logger.Debug("scheduler: task scheduled", String("task_id", id))
	return s.inner.Schedule(s.instrument(id, action))
}

func (s *monitoredScheduler) ScheduleAfter(delay time.Duration, action func()) Disposable {
	id := newCorrelationID()
	atomic.AddInt64(&s.scheduled, 1)
	s.logger.Debug("scheduler: task scheduled", String("task_id", id))
	return s.inner.ScheduleAfter(delay, s.instrument(id, action))
}

func (s *monitoredScheduler) instrument(id string, action func()) func() {
	return func() {
		defer func() {
			atomic.AddInt64(&s.completed, 1)
			if r := recover(); r != nil {
				s.logger.Error("scheduler: task panicked", String("task_id", id), Err(WrapPanic(r)))
				panic(r)
			}
		}()
		action()
	}
}

func (s *monitoredScheduler) Now() time.Time { return s.inner.Now() }

// SchedulerMetrics reports simple counters for a monitored scheduler.
type SchedulerMetrics struct {
	Scheduled int64
	Completed int64
}

func (s *monitoredScheduler) Metrics() SchedulerMetrics {
	return SchedulerMetrics{
		Scheduled: atomic.LoadInt64(&s.scheduled),
		Completed: atomic.LoadInt64(&s.completed),
	}
}
