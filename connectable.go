package rxgo

import "sync"

// ConnectableObservable decouples subscription from subscription-to-the-
// source: observers subscribing to it before Connect only join the
// multicast group, and nothing flows from the underlying source until
// Connect is called.
type ConnectableObservable interface {
	Observable
	Connect() Disposable
}

type connectableImpl struct {
	source  Observable
	subject Subject

	mu         sync.Mutex
	connected  bool
	subscribed Disposable
}

// Multicast shares a single subscription to source across every observer
// that subscribes to the returned ConnectableObservable, replaying signals
// through subject — the general-purpose building block behind Publish,
// PublishValue and PublishLast, which only differ in which kind of Subject
// they hand to it.
func Multicast(source Observable, subject Subject) ConnectableObservable {
	return &connectableImpl{source: source, subject: subject}
}

func (c *connectableImpl) Subscribe(observer Observer) Disposable {
	return c.subject.Subscribe(observer)
}

// Connect subscribes subject to source exactly once; calling Connect again
// before the first connection's disposable is disposed returns that same
// disposable rather than subscribing a second time.
func (c *connectableImpl) Connect() Disposable {
	c.mu.Lock()
	if c.connected {
		sub := c.subscribed
		c.mu.Unlock()
		return sub
	}
	c.connected = true
	c.mu.Unlock()

	sub := c.source.Subscribe(c.subject)
	c.mu.Lock()
	c.subscribed = NewDisposable(func() {
		c.mu.Lock()
		c.connected = false
		c.subscribed = nil
		c.mu.Unlock()
		sub.Dispose()
	})
	result := c.subscribed
	c.mu.Unlock()
	return result
}

// Publish multicasts source through a fresh PublishSubject: subscribers
// only see values emitted after Connect and after they themselves
// subscribed.
func Publish(source Observable) ConnectableObservable {
	return Multicast(source, NewPublishSubject())
}

// PublishValue multicasts source through a BehaviorSubject seeded with
// initial, so every subscriber immediately sees the most recent value
// (or initial, before the first one arrives).
func PublishValue(source Observable, initial interface{}) ConnectableObservable {
	return Multicast(source, NewBehaviorSubject(initial))
}

// PublishLast multicasts source through an AsyncSubject: subscribers only
// ever see the source's final value, delivered once the source completes.
func PublishLast(source Observable) ConnectableObservable {
	return Multicast(source, NewAsyncSubject())
}

// refCounted wraps a ConnectableObservable with an explicit subscriber
// count, grounded on detail::RefCountObservable rather than on
// PublishSubject.HasObservers: the count transition (0->1 connects,
// 1->0 disconnects) is tracked directly instead of inferred from the
// subject's own internal observer list, which stays correct even if the
// subject implementation backing Connect ever changes.
type refCounted struct {
	source ConnectableObservable

	mu         sync.Mutex
	count      int
	connection Disposable
}

// RefCount turns a ConnectableObservable into an ordinary Observable that
// connects automatically when the first subscriber arrives and disconnects
// when the last one leaves.
func RefCount(source ConnectableObservable) Observable {
	rc := &refCounted{source: source}
	return newProducer(func(observer Observer, cancel Disposable, setSink setSinkFunc) Disposable {
		s := newSink(observer, cancel)
		setSink(s)
		sub := rc.source.Subscribe(s)

		rc.mu.Lock()
		rc.count++
		if rc.count == 1 {
			rc.connection = rc.source.Connect()
		}
		rc.mu.Unlock()

		return NewDisposable(func() {
			sub.Dispose()
			rc.mu.Lock()
			rc.count--
			if rc.count == 0 && rc.connection != nil {
				conn := rc.connection
				rc.connection = nil
				rc.mu.Unlock()
				conn.Dispose()
				return
			}
			rc.mu.Unlock()
		})
	})
}

// ConnectForever connects source immediately and keeps it connected
// regardless of subscriber count, for a hot source that should keep
// running even while momentarily unobserved.
func ConnectForever(source ConnectableObservable) Observable {
	source.Connect()
	return Create(func(observer Observer) Disposable {
		return source.Subscribe(observer)
	})
}

// AutoConnect connects source once subscriberCount subscriptions have
// accumulated, then stays connected regardless of later disconnects —
// unlike RefCount, it never disconnects once the threshold is reached.
func AutoConnect(source ConnectableObservable, subscriberCount int) Observable {
	if subscriberCount < 1 {
		subscriberCount = 1
	}
	var mu sync.Mutex
	count := 0
	connected := false
	return Create(func(observer Observer) Disposable {
		sub := source.Subscribe(observer)

		mu.Lock()
		count++
		if !connected && count >= subscriberCount {
			connected = true
			source.Connect()
		}
		mu.Unlock()

		return sub
	})
}
