package lock

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
)

// Release gives a held lock back. It is safe to call more than once.
type Release func(ctx context.Context) error

// Locker grants exclusive ownership of a key until the returned Release is
// called. Acquire blocks until the key is free or ctx is done.
type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

// ErrNotAcquired means the key stayed busy for the whole wait budget.
var ErrNotAcquired = httperr.ErrConflict("slot_busy", "the schedule for that day is being updated, try again")

// Local is an in-process keyed mutex. Entries are dropped once nobody holds or
// waits for them.
type Local struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{slots: make(map[string]*slot)}
}

func (l *Local) Acquire(ctx context.Context, key string) (Release, error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-s.ch
			l.drop(key, s)
		})
		return nil
	}, nil
}

func (l *Local) drop(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// size is the number of live keys.
func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
