package rxgo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishSubjectFansOutToMultipleObservers(t *testing.T) {
	s := NewPublishSubject()
	var a, b []interface{}
	s.Subscribe(NewObserver(func(v interface{}) { a = append(a, v) }, nil, nil))
	s.Subscribe(NewObserver(func(v interface{}) { b = append(b, v) }, nil, nil))

	s.OnNext(1)
	s.OnNext(2)
	s.OnCompleted()

	assert.Equal(t, []interface{}{1, 2}, a)
	assert.Equal(t, []interface{}{1, 2}, b)
}

func TestPublishSubjectLateSubscriberSeesOnlyFutureValues(t *testing.T) {
	s := NewPublishSubject()
	s.OnNext("missed")

	var got []interface{}
	s.Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, nil, nil))
	s.OnNext("seen")

	assert.Equal(t, []interface{}{"seen"}, got)
}

func TestPublishSubjectLateSubscriberAfterCompletionGetsCompletionOnly(t *testing.T) {
	s := NewPublishSubject()
	s.OnCompleted()

	completed := false
	s.Subscribe(NewObserver(nil, func() { completed = true }, nil))
	assert.True(t, completed)
}

func TestPublishSubjectLateSubscriberAfterErrorGetsError(t *testing.T) {
	s := NewPublishSubject()
	boom := errors.New("boom")
	s.OnError(boom)

	var gotErr error
	s.Subscribe(NewObserver(nil, nil, func(err error) { gotErr = err }))
	assert.Equal(t, boom, gotErr)
}

func TestPublishSubjectUnsubscribeStopsDelivery(t *testing.T) {
	s := NewPublishSubject()
	var got []interface{}
	d := s.Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, nil, nil))
	s.OnNext(1)
	d.Dispose()
	s.OnNext(2)
	assert.Equal(t, []interface{}{1}, got)
}

func TestPublishSubjectReusesTombstonedSlot(t *testing.T) {
	s := NewPublishSubject()
	d1 := s.Subscribe(NewObserver(nil, nil, nil))
	d1.Dispose()
	assert.Equal(t, 1, s.slotCount)

	d2 := s.Subscribe(NewObserver(nil, nil, nil))
	_ = d2
	assert.Equal(t, 0, s.slotCount)
	assert.Len(t, s.observers, 1)
}

func TestBehaviorSubjectDeliversCurrentValueOnSubscribe(t *testing.T) {
	s := NewBehaviorSubject(0)
	s.OnNext(1)

	var got interface{}
	s.Subscribe(NewObserver(func(v interface{}) { got = v }, nil, nil))
	assert.Equal(t, 1, got)
	assert.Equal(t, 1, s.Value())
}

func TestBehaviorSubjectCompletedSubscriberSeesFinalValueThenCompletion(t *testing.T) {
	s := NewBehaviorSubject("init")
	s.OnNext("final")
	s.OnCompleted()

	var got interface{}
	completed := false
	s.Subscribe(NewObserver(func(v interface{}) { got = v }, func() { completed = true }, nil))
	assert.Equal(t, "final", got)
	assert.True(t, completed)
}

func TestAsyncSubjectOnlyDeliversLastValueOnCompletion(t *testing.T) {
	s := NewAsyncSubject()
	var got []interface{}
	completed := false
	s.Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, func() { completed = true }, nil))

	s.OnNext(1)
	s.OnNext(2)
	s.OnNext(3)
	assert.Empty(t, got)
	assert.False(t, completed)

	s.OnCompleted()
	assert.Equal(t, []interface{}{3}, got)
	assert.True(t, completed)
}

func TestAsyncSubjectNoValueCompletesWithoutEmitting(t *testing.T) {
	s := NewAsyncSubject()
	var got []interface{}
	completed := false
	s.Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, func() { completed = true }, nil))
	s.OnCompleted()
	assert.Empty(t, got)
	assert.True(t, completed)
}

func TestGroupedSubjectExposesKey(t *testing.T) {
	g := NewGroupedSubject("even")
	assert.Equal(t, "even", g.Key())

	var got []interface{}
	g.Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, nil, nil))
	g.OnNext(2)
	assert.Equal(t, []interface{}{2}, got)
}
