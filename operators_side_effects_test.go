package rxgo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDoOnNextRunsActionWithoutAlteringValue(t *testing.T) {
	var seen []interface{}
	var got []interface{}
	DoOnNext(Just(1, 2), func(v interface{}) { seen = append(seen, v) }).
		Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, nil, nil))
	assert.Equal(t, []interface{}{1, 2}, seen)
	assert.Equal(t, []interface{}{1, 2}, got)
}

func TestDoOnNextPanicBecomesError(t *testing.T) {
	var gotErr error
	DoOnNext(Just(1), func(interface{}) { panic("side effect exploded") }).
		Subscribe(NewObserver(nil, nil, func(err error) { gotErr = err }))
	assert.Error(t, gotErr)
}

func TestDoOnErrorRunsActionThenForwards(t *testing.T) {
	boom := errors.New("boom")
	var seen error
	var gotErr error
	DoOnError(Throw(boom), func(err error) { seen = err }).
		Subscribe(NewObserver(nil, nil, func(err error) { gotErr = err }))
	assert.Equal(t, boom, seen)
	assert.Equal(t, boom, gotErr)
}

func TestDoOnCompletedRunsActionBeforeForwarding(t *testing.T) {
	ran := false
	completed := false
	DoOnCompleted(Empty(), func() { ran = true }).
		Subscribe(NewObserver(nil, func() { completed = true }, nil))
	assert.True(t, ran)
	assert.True(t, completed)
}

func TestFinallyRunsOnCompletionAndOnError(t *testing.T) {
	count := 0
	Finally(Just(1), func() { count++ }).Subscribe(NewObserver(nil, nil, nil))
	Finally(Throw(errors.New("boom")), func() { count++ }).Subscribe(NewObserver(nil, nil, nil))
	assert.Equal(t, 2, count)
}
