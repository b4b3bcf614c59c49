package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmcdole/marquee/internal/domain"
)

// notifier fans a "something changed" signal out to every subscriber.
// Each subscriber channel holds at most one pending signal, so a slow
// reader coalesces bursts of mutations into a single re-query.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]chan struct{}
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]chan struct{})}
}

func (n *notifier) subscribe() (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	ch := make(chan struct{}, 1)
	n.subs[id] = ch

	return ch, func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

func (n *notifier) notify() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default: // Already pending
		}
	}
}

// watch runs query now and after every notification until ctx is done.
// The returned channel is closed when ctx is done.
func watch[T any](ctx context.Context, n *notifier, logger *slog.Logger, query func() (T, error)) <-chan domain.Update[T] {
	out := make(chan domain.Update[T], 1)
	changed, unsubscribe := n.subscribe()

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			value, err := query()
			if err != nil {
				logger.Error("observable query failed", "error", err)
			}

			select {
			case out <- domain.Update[T]{Value: value, Err: err}:
			case <-ctx.Done():
				return
			}

			select {
			case <-changed:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
