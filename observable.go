package rxgo

// SubscribeFn performs the work of a subscription: deliver signals to
// observer (synchronously or by starting background work) and return a
// Disposable that cancels that delivery.
type SubscribeFn func(observer Observer) Disposable

// Observable is a subscribable source. Subscribing may be synchronous
// (signals delivered before Subscribe returns) or asynchronous; the
// returned Disposable terminates future signals to that observer.
type Observable interface {
	Subscribe(observer Observer) Disposable
}

type observableImpl struct {
	onSubscribe SubscribeFn
}

// Create builds an Observable from a raw subscribe function. Every
// subscription is wrapped in an auto-detach observer. When no action is
// running on the process-wide current-thread scheduler, the subscription
// runs as an action on it, so anything scheduled there during the
// subscription is queued until that action returns. A subscribe made while
// an action is already running calls onSubscribe directly, so nested
// synchronous subscribes still recurse on the stack.
func Create(onSubscribe SubscribeFn) Observable {
	return &observableImpl{onSubscribe: onSubscribe}
}

func (o *observableImpl) Subscribe(observer Observer) Disposable {
	autoDetach := newAutoDetachObserver(observer)

	run := func() {
		var sub Disposable
		err := SafeExecute(func() {
			sub = o.onSubscribe(autoDetach)
		})
		if err != nil {
			autoDetach.OnError(err)
			return
		}
		autoDetach.setDisposable(sub)
	}

	if CurrentThreadScheduler.isScheduleRequired() {
		CurrentThreadScheduler.Schedule(run)
	} else {
		run()
	}

	return autoDetach.asDisposable()
}

// Subscribe is sugar over source.Subscribe(NewObserver(...)) — the
// ergonomic alternative to constructing an Observer by hand, named directly
// in the library's external interface.
func Subscribe(source Observable, onNext OnNextFunc, onCompleted OnCompletedFunc, onError OnErrorFunc) Disposable {
	return source.Subscribe(NewObserver(onNext, onCompleted, onError))
}
