package rxgo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateDeliversValuesThenCompletion(t *testing.T) {
	var got []interface{}
	completed := false
	Create(func(observer Observer) Disposable {
		observer.OnNext(1)
		observer.OnNext(2)
		observer.OnCompleted()
		return Disposed()
	}).Subscribe(NewObserver(
		func(v interface{}) { got = append(got, v) },
		func() { completed = true },
		nil,
	))

	assert.Equal(t, []interface{}{1, 2}, got)
	assert.True(t, completed)
}

func TestCreatePanicInsideSubscribeBecomesOnError(t *testing.T) {
	var gotErr error
	Create(func(observer Observer) Disposable {
		panic("subscribe blew up")
	}).Subscribe(NewObserver(nil, nil, func(err error) { gotErr = err }))

	assert.Error(t, gotErr)
}

func TestSubscribeSugarWiresAllThreeCallbacks(t *testing.T) {
	var next interface{}
	var errOut error
	completed := false
	Subscribe(Just(42),
		func(v interface{}) { next = v },
		func() { completed = true },
		func(err error) { errOut = err },
	)
	assert.Equal(t, 42, next)
	assert.True(t, completed)
	assert.NoError(t, errOut)

	errSrc := Throw(errors.New("failure"))
	Subscribe(errSrc, nil, nil, func(err error) { errOut = err })
	assert.Error(t, errOut)
}
