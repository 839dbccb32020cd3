package rxgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMulticastDoesNotSubscribeSourceBeforeConnect(t *testing.T) {
	subscribed := false
	source := Create(func(observer Observer) Disposable {
		subscribed = true
		observer.OnNext(1)
		return Disposed()
	})
	connectable := Multicast(source, NewPublishSubject())
	connectable.Subscribe(NewObserver(nil, nil, nil))
	assert.False(t, subscribed)

	connectable.Connect()
	assert.True(t, subscribed)
}

func TestMulticastFansOutSingleSubscriptionToManyObservers(t *testing.T) {
	subscribeCount := 0
	source := Create(func(observer Observer) Disposable {
		subscribeCount++
		observer.OnNext(1)
		observer.OnNext(2)
		observer.OnCompleted()
		return Disposed()
	})
	connectable := Publish(source)
	var a, b []interface{}
	connectable.Subscribe(NewObserver(func(v interface{}) { a = append(a, v) }, nil, nil))
	connectable.Subscribe(NewObserver(func(v interface{}) { b = append(b, v) }, nil, nil))

	connectable.Connect()

	assert.Equal(t, 1, subscribeCount)
	assert.Equal(t, []interface{}{1, 2}, a)
	assert.Equal(t, []interface{}{1, 2}, b)
}

func TestPublishValueReplaysCurrentValueOnSubscribe(t *testing.T) {
	subject := NewBehaviorSubject(0)
	connectable := Multicast(Never(), subject)
	connectable.Connect()
	subject.OnNext(42)

	var got interface{}
	connectable.Subscribe(NewObserver(func(v interface{}) { got = v }, nil, nil))
	assert.Equal(t, 42, got)
}

func TestRefCountConnectsOnFirstSubscriberAndDisconnectsOnLast(t *testing.T) {
	connectCount := 0
	disconnectCount := 0
	source := Create(func(observer Observer) Disposable {
		connectCount++
		return NewDisposable(func() { disconnectCount++ })
	})
	shared := RefCount(Publish(source))

	d1 := shared.Subscribe(NewObserver(nil, nil, nil))
	assert.Equal(t, 1, connectCount)

	d2 := shared.Subscribe(NewObserver(nil, nil, nil))
	assert.Equal(t, 1, connectCount) // still just one upstream connection

	d1.Dispose()
	assert.Equal(t, 0, disconnectCount) // one subscriber remains

	d2.Dispose()
	assert.Equal(t, 1, disconnectCount)
}

func TestRefCountReconnectsAfterFullyDisconnecting(t *testing.T) {
	connectCount := 0
	source := Create(func(observer Observer) Disposable {
		connectCount++
		return Disposed()
	})
	shared := RefCount(Publish(source))

	shared.Subscribe(NewObserver(nil, nil, nil)).Dispose()
	shared.Subscribe(NewObserver(nil, nil, nil)).Dispose()
	assert.Equal(t, 2, connectCount)
}

func TestConnectForeverKeepsRunningWithoutSubscribers(t *testing.T) {
	connectCount := 0
	source := Create(func(observer Observer) Disposable {
		connectCount++
		return Disposed()
	})
	ConnectForever(Publish(source))
	assert.Equal(t, 1, connectCount)
}

func TestAutoConnectWaitsForThreshold(t *testing.T) {
	connectCount := 0
	source := Create(func(observer Observer) Disposable {
		connectCount++
		return Disposed()
	})
	shared := AutoConnect(Publish(source), 2)

	shared.Subscribe(NewObserver(nil, nil, nil))
	assert.Equal(t, 0, connectCount)

	shared.Subscribe(NewObserver(nil, nil, nil))
	assert.Equal(t, 1, connectCount)
}
