package rxgo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCatchSwitchesToFallbackOnError(t *testing.T) {
	boom := errors.New("boom")
	var got []interface{}
	Catch(Throw(boom), func(err error) Observable { return Just("fallback", err.Error()) }).
		Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, nil, nil))
	assert.Equal(t, []interface{}{"fallback", "boom"}, got)
}

func TestCatchDoesNotInterfereWithSuccessfulSource(t *testing.T) {
	var got []interface{}
	Catch(Just(1, 2), func(error) Observable { return Just(-1) }).
		Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, nil, nil))
	assert.Equal(t, []interface{}{1, 2}, got)
}

func TestRetryResubscribesUntilSuccess(t *testing.T) {
	attempts := 0
	source := Create(func(observer Observer) Disposable {
		attempts++
		if attempts < 3 {
			observer.OnError(errors.New("transient"))
			return Disposed()
		}
		observer.OnNext("ok")
		observer.OnCompleted()
		return Disposed()
	})

	var got interface{}
	Retry(source, 0).Subscribe(NewObserver(func(v interface{}) { got = v }, nil, nil))
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, attempts)
}

func TestRetryExhaustsAfterAttemptsLimit(t *testing.T) {
	source := Throw(errors.New("always fails"))
	var gotErr error
	Retry(source, 2).Subscribe(NewObserver(nil, nil, func(err error) { gotErr = err }))

	var exhausted *RetryExhaustedError
	assert.ErrorAs(t, gotErr, &exhausted)
	assert.Equal(t, 2, exhausted.Attempts)
}

func TestRetryWithBackoffEventuallySucceeds(t *testing.T) {
	scheduler := NewTestScheduler()
	attempts := 0
	fn := func() (interface{}, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("not yet")
		}
		return "done", nil
	}

	var got interface{}
	RetryWithBackoff(fn, 5, time.Millisecond, scheduler).Subscribe(NewObserver(func(v interface{}) { got = v }, nil, nil))
	scheduler.AdvanceTimeBy(0)
	assert.Equal(t, "done", got)
}

func TestOnErrorReturnSubstitutesValueForError(t *testing.T) {
	var got interface{}
	completed := false
	OnErrorReturn(Throw(errors.New("boom")), "fallback").
		Subscribe(NewObserver(func(v interface{}) { got = v }, func() { completed = true }, nil))
	assert.Equal(t, "fallback", got)
	assert.True(t, completed)
}

func TestOnErrorResumeNextSwitchesWithoutExposingError(t *testing.T) {
	var got interface{}
	OnErrorResumeNext(Throw(errors.New("boom")), Just("resumed")).
		Subscribe(NewObserver(func(v interface{}) { got = v }, nil, nil))
	assert.Equal(t, "resumed", got)
}
