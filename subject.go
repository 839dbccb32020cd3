package rxgo

import "sync"

// Subject is both Observer and Observable — the multicast primitive. A
// single upstream subscription (feeding it as an Observer) fans out to
// every downstream subscriber (subscribing to it as an Observable).
type Subject interface {
	Observer
	Observable
}

type subjectState int32

const (
	stateForwarding subjectState = iota
	stateCompleted
	stateErrored
)

type observerSlot struct {
	observer Observer
}

// PublishSubject is the plain Subject: forwarding, completed, or errored,
// with a mutex-guarded, tombstoned observer list. Tombstones (nil slots)
// keep indices stable while other observers are iterating a snapshot; new
// subscriptions reuse a tombstone when one is available instead of always
// appending.
type PublishSubject struct {
	mu        sync.Mutex
	state     subjectState
	err       error
	observers []*observerSlot
	slotCount int // number of tombstoned (free) slots
}

func NewPublishSubject() *PublishSubject {
	return &PublishSubject{}
}

func (s *PublishSubject) Subscribe(observer Observer) Disposable {
	observer = observerOrNoop(observer)
	s.mu.Lock()
	switch s.state {
	case stateCompleted:
		s.mu.Unlock()
		observer.OnCompleted()
		return Disposed()
	case stateErrored:
		err := s.err
		s.mu.Unlock()
		observer.OnError(err)
		return Disposed()
	}
	idx := s.enrollLocked(observer)
	s.mu.Unlock()
	return NewDisposable(func() { s.remove(idx) })
}

func (s *PublishSubject) enrollLocked(observer Observer) int {
	if s.slotCount > 0 {
		for i, slot := range s.observers {
			if slot == nil {
				s.observers[i] = &observerSlot{observer: observer}
				s.slotCount--
				return i
			}
		}
	}
	s.observers = append(s.observers, &observerSlot{observer: observer})
	return len(s.observers) - 1
}

func (s *PublishSubject) remove(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx >= 0 && idx < len(s.observers) && s.observers[idx] != nil {
		s.observers[idx] = nil
		s.slotCount++
	}
}

// snapshotLocked must be called with s.mu held; it copies out the live
// observers so delivery can happen after the lock is released — holding
// the lock through delivery would deadlock on reentrant subscribe/dispose.
func (s *PublishSubject) snapshotLocked() []Observer {
	out := make([]Observer, 0, len(s.observers)-s.slotCount)
	for _, slot := range s.observers {
		if slot != nil {
			out = append(out, slot.observer)
		}
	}
	return out
}

func (s *PublishSubject) HasObservers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)-s.slotCount > 0
}

func (s *PublishSubject) OnNext(value interface{}) {
	s.mu.Lock()
	if s.state != stateForwarding {
		s.mu.Unlock()
		return
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	for _, o := range snapshot {
		o.OnNext(value)
	}
}

func (s *PublishSubject) OnCompleted() {
	s.mu.Lock()
	if s.state != stateForwarding {
		s.mu.Unlock()
		return
	}
	s.state = stateCompleted
	snapshot := s.snapshotLocked()
	s.observers = nil
	s.slotCount = 0
	s.mu.Unlock()
	for _, o := range snapshot {
		o.OnCompleted()
	}
}

func (s *PublishSubject) OnError(err error) {
	s.mu.Lock()
	if s.state != stateForwarding {
		s.mu.Unlock()
		return
	}
	s.state = stateErrored
	s.err = err
	snapshot := s.snapshotLocked()
	s.observers = nil
	s.slotCount = 0
	s.mu.Unlock()
	for _, o := range snapshot {
		o.OnError(err)
	}
}

// BehaviorSubject caches the most recently pushed value; a new subscriber
// sees it immediately, then every subsequent on_next. Construction requires
// an initial value, since a behavior subject is never "empty".
type BehaviorSubject struct {
	mu        sync.Mutex
	state     subjectState
	err       error
	value     interface{}
	observers []*observerSlot
	slotCount int
}

func NewBehaviorSubject(initial interface{}) *BehaviorSubject {
	return &BehaviorSubject{value: initial}
}

func (s *BehaviorSubject) Value() interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *BehaviorSubject) Subscribe(observer Observer) Disposable {
	observer = observerOrNoop(observer)
	s.mu.Lock()
	state := s.state
	value := s.value
	err := s.err
	if state != stateForwarding {
		s.mu.Unlock()
		if state == stateCompleted {
			observer.OnNext(value)
			observer.OnCompleted()
		} else {
			observer.OnError(err)
		}
		return Disposed()
	}
	idx := s.enrollLocked(observer)
	s.mu.Unlock()
	// Delivered outside the lock, after enrolling, mirroring the
	// capture-under-lock-then-deliver-outside discipline: a concurrent
	// on_next racing this subscribe may double-deliver the boundary value
	// at worst, never drop a subsequent one, since enrollment happened
	// before the value was read for delivery here.
	observer.OnNext(value)
	return NewDisposable(func() { s.remove(idx) })
}

func (s *BehaviorSubject) enrollLocked(observer Observer) int {
	if s.slotCount > 0 {
		for i, slot := range s.observers {
			if slot == nil {
				s.observers[i] = &observerSlot{observer: observer}
				s.slotCount--
				return i
			}
		}
	}
	s.observers = append(s.observers, &observerSlot{observer: observer})
	return len(s.observers) - 1
}

func (s *BehaviorSubject) remove(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx >= 0 && idx < len(s.observers) && s.observers[idx] != nil {
		s.observers[idx] = nil
		s.slotCount++
	}
}

func (s *BehaviorSubject) snapshotLocked() []Observer {
	out := make([]Observer, 0, len(s.observers)-s.slotCount)
	for _, slot := range s.observers {
		if slot != nil {
			out = append(out, slot.observer)
		}
	}
	return out
}

func (s *BehaviorSubject) OnNext(value interface{}) {
	s.mu.Lock()
	if s.state != stateForwarding {
		s.mu.Unlock()
		return
	}
	s.value = value
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	for _, o := range snapshot {
		o.OnNext(value)
	}
}

func (s *BehaviorSubject) OnCompleted() {
	s.mu.Lock()
	if s.state != stateForwarding {
		s.mu.Unlock()
		return
	}
	s.state = stateCompleted
	snapshot := s.snapshotLocked()
	s.observers = nil
	s.slotCount = 0
	s.mu.Unlock()
	for _, o := range snapshot {
		o.OnCompleted()
	}
}

func (s *BehaviorSubject) OnError(err error) {
	s.mu.Lock()
	if s.state != stateForwarding {
		s.mu.Unlock()
		return
	}
	s.state = stateErrored
	s.err = err
	snapshot := s.snapshotLocked()
	s.observers = nil
	s.slotCount = 0
	s.mu.Unlock()
	for _, o := range snapshot {
		o.OnError(err)
	}
}

// AsyncSubject buffers only the last value received before completion.
// Nothing is delivered to a subscriber until on_completed; at that point
// the buffered value (if any) plus the completion are delivered together.
type AsyncSubject struct {
	mu        sync.Mutex
	state     subjectState
	err       error
	hasValue  bool
	value     interface{}
	observers []*observerSlot
	slotCount int
}

func NewAsyncSubject() *AsyncSubject {
	return &AsyncSubject{}
}

func (s *AsyncSubject) Subscribe(observer Observer) Disposable {
	observer = observerOrNoop(observer)
	s.mu.Lock()
	switch s.state {
	case stateCompleted:
		hasValue, value := s.hasValue, s.value
		s.mu.Unlock()
		if hasValue {
			observer.OnNext(value)
		}
		observer.OnCompleted()
		return Disposed()
	case stateErrored:
		err := s.err
		s.mu.Unlock()
		observer.OnError(err)
		return Disposed()
	}
	idx := s.enrollLocked(observer)
	s.mu.Unlock()
	return NewDisposable(func() { s.remove(idx) })
}

func (s *AsyncSubject) enrollLocked(observer Observer) int {
	if s.slotCount > 0 {
		for i, slot := range s.observers {
			if slot == nil {
				s.observers[i] = &observerSlot{observer: observer}
				s.slotCount--
				return i
			}
		}
	}
	s.observers = append(s.observers, &observerSlot{observer: observer})
	return len(s.observers) - 1
}

func (s *AsyncSubject) remove(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx >= 0 && idx < len(s.observers) && s.observers[idx] != nil {
		s.observers[idx] = nil
		s.slotCount++
	}
}

func (s *AsyncSubject) snapshotLocked() []Observer {
	out := make([]Observer, 0, len(s.observers)-s.slotCount)
	for _, slot := range s.observers {
		if slot != nil {
			out = append(out, slot.observer)
		}
	}
	return out
}

// OnNext only updates the buffer; nothing is forwarded until OnCompleted.
func (s *AsyncSubject) OnNext(value interface{}) {
	s.mu.Lock()
	if s.state != stateForwarding {
		s.mu.Unlock()
		return
	}
	s.value = value
	s.hasValue = true
	s.mu.Unlock()
}

func (s *AsyncSubject) OnCompleted() {
	s.mu.Lock()
	if s.state != stateForwarding {
		s.mu.Unlock()
		return
	}
	s.state = stateCompleted
	hasValue, value := s.hasValue, s.value
	snapshot := s.snapshotLocked()
	s.observers = nil
	s.slotCount = 0
	s.mu.Unlock()
	for _, o := range snapshot {
		if hasValue {
			o.OnNext(value)
		}
		o.OnCompleted()
	}
}

func (s *AsyncSubject) OnError(err error) {
	s.mu.Lock()
	if s.state != stateForwarding {
		s.mu.Unlock()
		return
	}
	s.state = stateErrored
	s.err = err
	snapshot := s.snapshotLocked()
	s.observers = nil
	s.slotCount = 0
	s.mu.Unlock()
	for _, o := range snapshot {
		o.OnError(err)
	}
}

// GroupedSubject is a PublishSubject that additionally exposes the key
// group_by partitioned it under.
type GroupedSubject struct {
	*PublishSubject
	key interface{}
}

func NewGroupedSubject(key interface{}) *GroupedSubject {
	return &GroupedSubject{PublishSubject: NewPublishSubject(), key: key}
}

func (g *GroupedSubject) Key() interface{} { return g.key }
