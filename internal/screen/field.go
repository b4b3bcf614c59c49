// Package screen holds one state container per screen. Each action publishes
// Loading, runs on its own goroutine and then publishes Success or Error.
package screen

import (
	"context"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/state"
)

// MoviesState is the tri-state value of a movie list
type MoviesState = state.UIState[[]domain.Movie]

// field is one observable of a container plus the action currently feeding it.
// Starting a new action cancels the previous one, and results of a cancelled
// action are never published.
type field[T any] struct {
	obs *state.Observable[state.UIState[T]]

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

func newField[T any](initial state.UIState[T]) *field[T] {
	return &field[T]{obs: state.NewObservable(initial)}
}

// begin cancels the running action and starts a new one under parent.
// With loading set, Loading is published first.
func (f *field[T]) begin(parent context.Context, loading bool) (context.Context, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	f.cancel = cancel
	f.gen++

	if loading {
		f.obs.Set(state.Loading[T]())
	}
	return ctx, f.gen
}

// publish sets s if gen is still the current action
func (f *field[T]) publish(gen uint64, s state.UIState[T]) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		return false
	}
	f.obs.Set(s)
	return true
}

// result publishes Success(v) or Failure(err)
func (f *field[T]) result(gen uint64, v T, err error) {
	if err != nil {
		f.publish(gen, state.Failure[T](err))
		return
	}
	f.publish(gen, state.Success(v))
}

// fail publishes an error regardless of which action is current
func (f *field[T]) fail(err error) {
	f.obs.Set(state.Failure[T](err))
}

// stop cancels the running action
func (f *field[T]) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
}

// follow publishes every update of a store stream until ctx is done
func follow[T any](f *field[T], gen uint64, updates <-chan domain.Update[T]) {
	for u := range updates {
		f.result(gen, u.Value, u.Err)
	}
}
