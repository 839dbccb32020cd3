package rxgo

import "sync"

// Where passes through values for which predicate returns true, dropping
// the rest; a panic out of predicate is delivered as on_error.
func Where(source Observable, predicate Predicate) Observable {
	return Create(func(observer Observer) Disposable {
		return source.Subscribe(NewObserver(
			func(value interface{}) {
				keep := false
				err := SafeExecute(func() { keep = predicate(value) })
				if err != nil {
					observer.OnError(err)
					return
				}
				if keep {
					observer.OnNext(value)
				}
			},
			observer.OnCompleted,
			observer.OnError,
		))
	})
}

// Select maps every value through transform; a panic out of transform is
// delivered as on_error.
func Select(source Observable, transform Transformer) Observable {
	return Create(func(observer Observer) Disposable {
		return source.Subscribe(NewObserver(
			func(value interface{}) {
				var out interface{}
				err := SafeExecute(func() { out = transform(value) })
				if err != nil {
					observer.OnError(err)
					return
				}
				observer.OnNext(out)
			},
			observer.OnCompleted,
			observer.OnError,
		))
	})
}

// Scan folds source through reducer, emitting the running accumulator for
// every value from the second one on — the unseeded form: the first source
// value only initializes the accumulator and is not emitted by itself, and
// a source that completes without any value completes silently.
func Scan(source Observable, reducer Reducer) Observable {
	return newProducer(func(observer Observer, cancel Disposable, setSink setSinkFunc) Disposable {
		s := newSink(observer, cancel)
		setSink(s)
		var mu sync.Mutex
		var acc interface{}
		hasAcc := false
		return source.Subscribe(NewObserver(
			func(value interface{}) {
				mu.Lock()
				if !hasAcc {
					acc = value
					hasAcc = true
					mu.Unlock()
					return
				}
				current := acc
				mu.Unlock()
				var next interface{}
				err := SafeExecute(func() { next = reducer(current, value) })
				if err != nil {
					s.OnError(err)
					return
				}
				mu.Lock()
				acc = next
				mu.Unlock()
				s.OnNext(next)
			},
			s.OnCompleted,
			s.OnError,
		))
	})
}

// ScanSeeded folds source through reducer starting from seed, emitting the
// running accumulator after every value; if source completes without any
// value, seed itself is emitted before the completion.
func ScanSeeded(source Observable, seed interface{}, reducer Reducer) Observable {
	return newProducer(func(observer Observer, cancel Disposable, setSink setSinkFunc) Disposable {
		s := newSink(observer, cancel)
		setSink(s)
		var mu sync.Mutex
		acc := seed
		hasValue := false
		return source.Subscribe(NewObserver(
			func(value interface{}) {
				mu.Lock()
				current := acc
				hasValue = true
				mu.Unlock()
				var next interface{}
				err := SafeExecute(func() { next = reducer(current, value) })
				if err != nil {
					s.OnError(err)
					return
				}
				mu.Lock()
				acc = next
				mu.Unlock()
				s.OnNext(next)
			},
			func() {
				mu.Lock()
				empty := !hasValue
				mu.Unlock()
				if empty {
					s.OnNext(seed)
				}
				s.OnCompleted()
			},
			s.OnError,
		))
	})
}

// mergeSubscriber is the state shared by every source of one Merge
// subscription: pendingSources counts the sources that have not completed
// yet, and errored records that an on_error has already been forwarded.
type mergeSubscriber struct {
	mu            sync.Mutex
	pendingSources int
	errored       bool
}

// Merge subscribes to every source concurrently and forwards whichever
// value arrives, completing once every source has completed. The first
// on_error from any source terminates the merge immediately.
func Merge(sources ...Observable) Observable {
	return Create(func(observer Observer) Disposable {
		state := &mergeSubscriber{pendingSources: len(sources)}
		composite := NewCompositeDisposable()

		if len(sources) == 0 {
			observer.OnCompleted()
			return Disposed()
		}

		for _, src := range sources {
			src := src
			composite.Add(src.Subscribe(NewObserver(
				observer.OnNext,
				func() {
					state.mu.Lock()
					state.pendingSources--
					done := state.pendingSources == 0 && !state.errored
					state.mu.Unlock()
					if done {
						observer.OnCompleted()
					}
				},
				func(err error) {
					state.mu.Lock()
					already := state.errored
					state.errored = true
					state.mu.Unlock()
					if !already {
						observer.OnError(err)
					}
				},
			)))
		}
		return composite
	})
}

// Concat subscribes to sources one at a time, in order, moving to the next
// only once the current one completes; an error from any source terminates
// the whole chain.
func Concat(sources ...Observable) Observable {
	return Create(func(observer Observer) Disposable {
		composite := NewCompositeDisposable()
		var subscribeNext func(i int)
		subscribeNext = func(i int) {
			if i >= len(sources) {
				observer.OnCompleted()
				return
			}
			composite.Add(sources[i].Subscribe(NewObserver(
				observer.OnNext,
				func() { subscribeNext(i + 1) },
				observer.OnError,
			)))
		}
		subscribeNext(0)
		return composite
	})
}

// CombineLatest re-emits the latest value from every source, as a []interface{}
// in source order, whenever any source produces a new value — but only
// once every source has produced at least one value.
func CombineLatest(sources ...Observable) Observable {
	return Create(func(observer Observer) Disposable {
		n := len(sources)
		if n == 0 {
			observer.OnCompleted()
			return Disposed()
		}
		var mu sync.Mutex
		values := make([]interface{}, n)
		hasValue := make([]bool, n)
		completedCount := 0
		allHaveValue := func() bool {
			for _, ok := range hasValue {
				if !ok {
					return false
				}
			}
			return true
		}

		composite := NewCompositeDisposable()
		for i, src := range sources {
			i, src := i, src
			composite.Add(src.Subscribe(NewObserver(
				func(value interface{}) {
					mu.Lock()
					values[i] = value
					hasValue[i] = true
					ready := allHaveValue()
					var snapshot []interface{}
					if ready {
						snapshot = append([]interface{}{}, values...)
					}
					mu.Unlock()
					if ready {
						observer.OnNext(snapshot)
					}
				},
				func() {
					mu.Lock()
					completedCount++
					done := completedCount == n
					mu.Unlock()
					if done {
						observer.OnCompleted()
					}
				},
				observer.OnError,
			)))
		}
		return composite
	})
}

// Zip pairs up the i-th value from every source into a []interface{},
// emitting one combined value per complete set; it completes once any
// source runs out of buffered values and has itself completed.
func Zip(sources ...Observable) Observable {
	return Create(func(observer Observer) Disposable {
		n := len(sources)
		if n == 0 {
			observer.OnCompleted()
			return Disposed()
		}
		var mu sync.Mutex
		buffers := make([][]interface{}, n)
		completed := make([]bool, n)

		tryEmit := func() {
			for {
				for _, buf := range buffers {
					if len(buf) == 0 {
						return
					}
				}
				row := make([]interface{}, n)
				for i := range buffers {
					row[i] = buffers[i][0]
					buffers[i] = buffers[i][1:]
				}
				observer.OnNext(row)
			}
		}

		anyExhausted := func() bool {
			for i, buf := range buffers {
				if completed[i] && len(buf) == 0 {
					return true
				}
			}
			return false
		}

		composite := NewCompositeDisposable()
		for i, src := range sources {
			i, src := i, src
			composite.Add(src.Subscribe(NewObserver(
				func(value interface{}) {
					mu.Lock()
					buffers[i] = append(buffers[i], value)
					tryEmit()
					exhausted := anyExhausted()
					mu.Unlock()
					if exhausted {
						observer.OnCompleted()
					}
				},
				func() {
					mu.Lock()
					completed[i] = true
					exhausted := anyExhausted()
					mu.Unlock()
					if exhausted {
						observer.OnCompleted()
					}
				},
				observer.OnError,
			)))
		}
		return composite
	})
}

// groupEntry pairs a key with the GroupedSubject partitioning values for
// it, kept in first-seen insertion order rather than a sorted map — Go has
// no ordered map with a caller-supplied comparator, and first-seen order is
// all callers of GroupBy actually need.
type groupEntry struct {
	key     interface{}
	grouped *GroupedSubject
}

// GroupBy partitions source into one GroupedObservable per distinct key,
// in first-seen order; each group observable is itself an Observable that
// emits only the values sharing that key, transformed through valueSelector.
// A panic out of either selector is delivered as on_error, matching
// Where's and Select's SafeExecute pattern.
func GroupBy(source Observable, keySelector func(value interface{}) interface{}, valueSelector func(value interface{}) interface{}) Observable {
	return Create(func(observer Observer) Disposable {
		var mu sync.Mutex
		var groups []*groupEntry

		lookupOrCreate := func(key interface{}) (*GroupedSubject, bool) {
			mu.Lock()
			defer mu.Unlock()
			for _, g := range groups {
				if g.key == key {
					return g.grouped, false
				}
			}
			grouped := NewGroupedSubject(key)
			groups = append(groups, &groupEntry{key: key, grouped: grouped})
			return grouped, true
		}

		return source.Subscribe(NewObserver(
			func(value interface{}) {
				var key interface{}
				err := SafeExecute(func() { key = keySelector(value) })
				if err != nil {
					observer.OnError(err)
					return
				}
				grouped, isNew := lookupOrCreate(key)
				if isNew {
					observer.OnNext(grouped)
				}
				var mapped interface{}
				err = SafeExecute(func() { mapped = valueSelector(value) })
				if err != nil {
					observer.OnError(err)
					return
				}
				grouped.OnNext(mapped)
			},
			func() {
				mu.Lock()
				snapshot := append([]*groupEntry{}, groups...)
				mu.Unlock()
				for _, g := range snapshot {
					g.grouped.OnCompleted()
				}
				observer.OnCompleted()
			},
			func(err error) {
				mu.Lock()
				snapshot := append([]*groupEntry{}, groups...)
				mu.Unlock()
				for _, g := range snapshot {
					g.grouped.OnError(err)
				}
				observer.OnError(err)
			},
		))
	})
}
