package rxgo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayShiftsSignalsLaterBySameDuration(t *testing.T) {
	scheduler := NewTestScheduler()
	var got []interface{}
	completed := false
	Delay(Just(1, 2), time.Second, scheduler).Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, func() { completed = true }, nil))

	assert.Empty(t, got)
	scheduler.AdvanceTimeBy(time.Second)
	assert.Equal(t, []interface{}{1, 2}, got)
	assert.True(t, completed)
}

func TestThrottleForwardsOnlyAfterQuietPeriod(t *testing.T) {
	scheduler := NewTestScheduler()
	source := NewPublishSubject()
	var got []interface{}
	Throttle(source, time.Second, scheduler).Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, nil, nil))

	source.OnNext(1)
	scheduler.AdvanceTimeBy(500 * time.Millisecond)
	source.OnNext(2) // resets the timer; 1 is superseded and dropped
	scheduler.AdvanceTimeBy(time.Second)

	assert.Equal(t, []interface{}{2}, got)
}

func TestThrottleFlushesPendingValueOnCompletion(t *testing.T) {
	scheduler := NewTestScheduler()
	source := NewPublishSubject()
	var got []interface{}
	completed := false
	Throttle(source, time.Second, scheduler).Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, func() { completed = true }, nil))

	source.OnNext(1)
	source.OnCompleted()
	assert.Equal(t, []interface{}{1}, got)
	assert.True(t, completed)
}

func TestThrottleDoesNotDoubleEmitAfterTimerAlreadyFired(t *testing.T) {
	scheduler := NewTestScheduler()
	source := NewPublishSubject()
	var got []interface{}
	Throttle(source, time.Second, scheduler).Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, nil, nil))

	source.OnNext(1)
	scheduler.AdvanceTimeBy(time.Second) // timer fires, delivers 1
	source.OnCompleted()

	assert.Equal(t, []interface{}{1}, got)
}

func TestDelayForwardsErrorImmediatelyBypassingTheDelay(t *testing.T) {
	scheduler := NewTestScheduler()
	boom := errors.New("boom")
	var gotErr error
	Delay(Throw(boom), time.Hour, scheduler).Subscribe(NewObserver(nil, nil, func(err error) { gotErr = err }))

	assert.Equal(t, boom, gotErr) // delivered without ever advancing the scheduler
}

func TestTimeoutFiresWhenNoSignalArrivesInTime(t *testing.T) {
	scheduler := NewTestScheduler()
	source := NewPublishSubject()
	var gotErr error
	Timeout(source, time.Second, scheduler).Subscribe(NewObserver(nil, nil, func(err error) { gotErr = err }))

	scheduler.AdvanceTimeBy(time.Second)
	assert.Error(t, gotErr)
}

func TestTimeoutResetsOnEveryValue(t *testing.T) {
	scheduler := NewTestScheduler()
	source := NewPublishSubject()
	var gotErr error
	var got []interface{}
	Timeout(source, time.Second, scheduler).Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, nil, func(err error) { gotErr = err }))

	scheduler.AdvanceTimeBy(500 * time.Millisecond)
	source.OnNext(1)
	scheduler.AdvanceTimeBy(500 * time.Millisecond)
	source.OnNext(2)
	scheduler.AdvanceTimeBy(500 * time.Millisecond)

	assert.NoError(t, gotErr)
	assert.Equal(t, []interface{}{1, 2}, got)
}
