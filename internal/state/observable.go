package state

import (
	"context"
	"sync"
)

// Observable holds the latest value of a screen field and hands it to
// subscribers. Readers that fall behind skip intermediate values but always
// end up with the latest one.
type Observable[T any] struct {
	mu    sync.Mutex
	value T
	seq   uint64
	subs  map[chan struct{}]struct{}
}

// NewObservable creates an observable holding initial
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial, subs: make(map[chan struct{}]struct{})}
}

// Value returns the latest value
func (o *Observable[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Set publishes a new value
func (o *Observable[T]) Set(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.value = v
	o.seq++
	for ch := range o.subs {
		select {
		case ch <- struct{}{}:
		default: // Reader already has a pending wakeup
		}
	}
}

// Subscribe returns a channel that receives the current value immediately
// and then every newer value until ctx is done, when it is closed.
func (o *Observable[T]) Subscribe(ctx context.Context) <-chan T {
	out := make(chan T)
	wake := make(chan struct{}, 1)
	wake <- struct{}{} // Deliver the current value first

	o.mu.Lock()
	o.subs[wake] = struct{}{}
	o.mu.Unlock()

	go func() {
		defer close(out)
		defer func() {
			o.mu.Lock()
			delete(o.subs, wake)
			o.mu.Unlock()
		}()

		var sent uint64
		first := true
		for {
			select {
			case <-wake:
			case <-ctx.Done():
				return
			}

			o.mu.Lock()
			v, seq := o.value, o.seq
			o.mu.Unlock()
			if !first && seq == sent {
				continue
			}
			first = false
			sent = seq

			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
