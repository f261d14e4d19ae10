package room

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-engine/engine"
)

// broadcast publishes t to every subscriber. Each send is attempted
// independently and concurrently via errgroup, the way
// internal/evaluator/equity.go fans out parallel work under a shared
// context; a subscriber whose buffer is full is dropped rather than
// allowed to stall the authoritative state (spec §5).
func (r *Room) broadcast(t *engine.Table) {
	r.subMu.Lock()
	subs := make(map[int]chan *engine.Table, len(r.subscribers))
	for id, ch := range r.subscribers {
		subs[id] = ch
	}
	r.subMu.Unlock()
	if len(subs) == 0 {
		return
	}

	g, _ := errgroup.WithContext(context.Background())
	var dropMu sync.Mutex
	var dropped []int
	for id, ch := range subs {
		id, ch := id, ch
		g.Go(func() error {
			select {
			case ch <- t:
			default:
				dropMu.Lock()
				dropped = append(dropped, id)
				dropMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(dropped) > 0 {
		r.subMu.Lock()
		for _, id := range dropped {
			if ch, ok := r.subscribers[id]; ok {
				close(ch)
				delete(r.subscribers, id)
			}
		}
		r.subMu.Unlock()
		r.logger.Debug("dropped slow subscribers", "count", len(dropped))
	}
}
