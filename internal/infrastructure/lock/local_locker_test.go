package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/lock"
)

func TestLocalLocker_Exclusion(t *testing.T) {
	l := lock.NewLocalLocker()
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "po-1")
			require.NoError(t, err)
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			_ = release(context.Background())
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestLocalLocker_ClavesIndependientes(t *testing.T) {
	l := lock.NewLocalLocker()
	r1, err := l.Acquire(context.Background(), "a")
	require.NoError(t, err)
	r2, err := l.Acquire(context.Background(), "b")
	require.NoError(t, err)
	assert.NoError(t, r1(context.Background()))
	assert.NoError(t, r2(context.Background()))
}

func TestLocalLocker_TimeoutDevuelveInvalidState(t *testing.T) {
	l := lock.NewLocalLocker()
	release, err := l.Acquire(context.Background(), "po-1")
	require.NoError(t, err)
	defer func() { _ = release(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "po-1")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
