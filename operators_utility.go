package rxgo

// ToSlice subscribes to source immediately, blocking the calling goroutine
// until it completes, and returns every value it emitted in order. An
// on_error from source is returned as the error.
func ToSlice(source Observable) ([]interface{}, error) {
	done := make(chan struct{})
	var values []interface{}
	var err error
	source.Subscribe(NewObserver(
		func(value interface{}) { values = append(values, value) },
		func() { close(done) },
		func(e error) { err = e; close(done) },
	))
	<-done
	return values, err
}

// ToStdCollection is ToSlice's explicit name: it collects source into an
// ordinary Go slice rather than leaving callers to fold on_next by hand —
// the Go-native counterpart to the original's to_vector/to_std_collection.
func ToStdCollection(source Observable) ([]interface{}, error) {
	return ToSlice(source)
}

// ToChannel subscribes to source and forwards every value onto the
// returned channel, closing it when source completes or errors. errCh
// receives at most one error, and is closed alongside ch.
func ToChannel(source Observable) (<-chan interface{}, <-chan error) {
	ch := make(chan interface{})
	errCh := make(chan error, 1)
	go func() {
		done := make(chan struct{})
		source.Subscribe(NewObserver(
			func(value interface{}) { ch <- value },
			func() { close(done) },
			func(err error) { errCh <- err; close(done) },
		))
		<-done
		close(ch)
		close(errCh)
	}()
	return ch, errCh
}
