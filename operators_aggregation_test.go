package rxgo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTakeForwardsOnlyFirstCountValues(t *testing.T) {
	var got []interface{}
	completed := false
	Take(Range(1, 10), 3).Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, func() { completed = true }, nil))
	assert.Equal(t, []interface{}{1, 2, 3}, got)
	assert.True(t, completed)
}

func TestTakeZeroCompletesImmediately(t *testing.T) {
	called := false
	completed := false
	Take(Just(1, 2), 0).Subscribe(NewObserver(func(interface{}) { called = true }, func() { completed = true }, nil))
	assert.False(t, called)
	assert.True(t, completed)
}

func TestTakeUntilStopsWhenNotifierFires(t *testing.T) {
	source := NewPublishSubject()
	notifier := NewPublishSubject()
	var got []interface{}
	completed := false
	TakeUntil(source, notifier).Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, func() { completed = true }, nil))

	source.OnNext(1)
	notifier.OnNext("stop")
	source.OnNext(2)

	assert.Equal(t, []interface{}{1}, got)
	assert.True(t, completed)
}

func TestSkipDropsFirstCountValues(t *testing.T) {
	var got []interface{}
	Skip(Range(1, 5), 2).Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, nil, nil))
	assert.Equal(t, []interface{}{3, 4, 5}, got)
}

func TestSkipUntilForwardsOnlyAfterNotifierFires(t *testing.T) {
	source := NewPublishSubject()
	notifier := NewPublishSubject()
	var got []interface{}
	SkipUntil(source, notifier).Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, nil, nil))

	source.OnNext(1)
	notifier.OnNext("go")
	source.OnNext(2)

	assert.Equal(t, []interface{}{2}, got)
}

func TestDistinctUntilChangedDropsConsecutiveDuplicates(t *testing.T) {
	var got []interface{}
	DistinctUntilChanged(Just(1, 1, 2, 2, 1)).Subscribe(NewObserver(func(v interface{}) { got = append(got, v) }, nil, nil))
	assert.Equal(t, []interface{}{1, 2, 1}, got)
}

func TestCountEmitsNumberOfValues(t *testing.T) {
	var got interface{}
	Count(Just(1, 2, 3)).Subscribe(NewObserver(func(v interface{}) { got = v }, nil, nil))
	assert.Equal(t, int64(3), got)
}

func TestFirstEmitsOnlyFirstValue(t *testing.T) {
	var got interface{}
	First(Just(1, 2, 3)).Subscribe(NewObserver(func(v interface{}) { got = v }, nil, nil))
	assert.Equal(t, 1, got)
}

func TestFirstOnEmptySourceErrors(t *testing.T) {
	var gotErr error
	First(Empty()).Subscribe(NewObserver(nil, nil, func(err error) { gotErr = err }))
	var nse *NoSuchElementError
	assert.ErrorAs(t, gotErr, &nse)
}

func TestLastEmitsOnlyFinalValue(t *testing.T) {
	var got interface{}
	Last(Just(1, 2, 3)).Subscribe(NewObserver(func(v interface{}) { got = v }, nil, nil))
	assert.Equal(t, 3, got)
}

func TestLastOnEmptySourceErrors(t *testing.T) {
	var gotErr error
	Last(Empty()).Subscribe(NewObserver(nil, nil, func(err error) { gotErr = err }))
	assert.Error(t, gotErr)
}

func TestReduceFoldsToSingleFinalValue(t *testing.T) {
	var got interface{}
	Reduce(Just(1, 2, 3, 4), 0, func(acc, v interface{}) interface{} { return acc.(int) + v.(int) }).
		Subscribe(NewObserver(func(v interface{}) { got = v }, nil, nil))
	assert.Equal(t, 10, got)
}

func TestSumAddsEveryNumericValue(t *testing.T) {
	var got interface{}
	Sum(Just(1, 2.5, 3)).Subscribe(NewObserver(func(v interface{}) { got = v }, nil, nil))
	assert.Equal(t, 6.5, got)
}

func TestAverageComputesMean(t *testing.T) {
	var got interface{}
	Average(Just(1, 2, 3)).Subscribe(NewObserver(func(v interface{}) { got = v }, nil, nil))
	assert.Equal(t, 2.0, got)
}

func TestAverageOnEmptySourceErrors(t *testing.T) {
	var gotErr error
	Average(Empty()).Subscribe(NewObserver(nil, nil, func(err error) { gotErr = err }))
	assert.Error(t, gotErr)
}

func TestMinAndMaxFindExtremes(t *testing.T) {
	var min, max interface{}
	Min(Just(3, 1, 2)).Subscribe(NewObserver(func(v interface{}) { min = v }, nil, nil))
	Max(Just(3, 1, 2)).Subscribe(NewObserver(func(v interface{}) { max = v }, nil, nil))
	assert.Equal(t, 1, min)
	assert.Equal(t, 3, max)
}

func TestMinOnNonNumericValueErrors(t *testing.T) {
	var gotErr error
	Min(Just("a")).Subscribe(NewObserver(nil, nil, func(err error) { gotErr = err }))
	assert.Error(t, gotErr)
	assert.True(t, errors.As(gotErr, new(*NoSuchElementError)))
}
