package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

var _ purchasing.Locker = (*LocalLocker)(nil)

// LocalLocker lock por clave dentro del proceso (una sola réplica o tests).
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{} // buffer 1: lleno = tomado
	refs int
}

// NewLocalLocker construye el locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]*slot)}
}

// Acquire espera el lock de la clave hasta que ctx termine.
func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
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
		l.unref(key, s)
		return nil, fmt.Errorf("%w: operación en curso sobre %s: %v", domain.ErrInvalidState, key, ctx.Err())
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-s.ch
			l.unref(key, s)
		})
		return nil
	}, nil
}

func (l *LocalLocker) unref(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
