package rxgo

// DoOnNext runs action for every value passing through source, without
// altering it; a panic out of action is delivered as on_error instead of
// propagating.
func DoOnNext(source Observable, action OnNextFunc) Observable {
	return Create(func(observer Observer) Disposable {
		return source.Subscribe(NewObserver(
			func(value interface{}) {
				err := SafeExecute(func() { action(value) })
				if err != nil {
					observer.OnError(err)
					return
				}
				observer.OnNext(value)
			},
			observer.OnCompleted,
			observer.OnError,
		))
	})
}

// DoOnError runs action with source's error before forwarding it.
func DoOnError(source Observable, action OnErrorFunc) Observable {
	return Create(func(observer Observer) Disposable {
		return source.Subscribe(NewObserver(
			observer.OnNext,
			observer.OnCompleted,
			func(err error) {
				SafeExecute(func() { action(err) })
				observer.OnError(err)
			},
		))
	})
}

// DoOnCompleted runs action just before forwarding source's completion.
func DoOnCompleted(source Observable, action OnCompletedFunc) Observable {
	return Create(func(observer Observer) Disposable {
		return source.Subscribe(NewObserver(
			observer.OnNext,
			func() {
				SafeExecute(action)
				observer.OnCompleted()
			},
			observer.OnError,
		))
	})
}

// Do attaches all three side-effect callbacks at once; any nil callback is
// skipped.
func Do(source Observable, onNext OnNextFunc, onCompleted OnCompletedFunc, onError OnErrorFunc) Observable {
	return Create(func(observer Observer) Disposable {
		return source.Subscribe(NewObserver(
			func(value interface{}) {
				if onNext != nil {
					err := SafeExecute(func() { onNext(value) })
					if err != nil {
						observer.OnError(err)
						return
					}
				}
				observer.OnNext(value)
			},
			func() {
				if onCompleted != nil {
					SafeExecute(onCompleted)
				}
				observer.OnCompleted()
			},
			func(err error) {
				if onError != nil {
					SafeExecute(func() { onError(err) })
				}
				observer.OnError(err)
			},
		))
	})
}

// Finally runs action exactly once when source terminates, whether by
// completion or error — the inverse of catching the error, for cleanup
// that must run regardless of outcome.
func Finally(source Observable, action func()) Observable {
	return Create(func(observer Observer) Disposable {
		return source.Subscribe(NewObserver(
			observer.OnNext,
			func() {
				observer.OnCompleted()
				SafeExecute(action)
			},
			func(err error) {
				observer.OnError(err)
				SafeExecute(action)
			},
		))
	})
}
