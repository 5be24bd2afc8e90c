package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerialisesSameKey(t *testing.T) {
	k := NewKeyedMutex()
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := k.Lock(context.Background(), "post:1")
			if err != nil {
				return
			}
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, k.Len())
}

func TestKeyedMutexLockGivesUpOnDeadline(t *testing.T) {
	k := NewKeyedMutex()
	unlock, err := k.Lock(context.Background(), "survey:1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = k.Lock(ctx, "survey:1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, k.Len())

	other, err := k.Lock(ctx, "survey:2")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, other)

	unlock()
	assert.Equal(t, 0, k.Len())
	again, err := k.Lock(context.Background(), "survey:1")
	require.NoError(t, err)
	again()
}

func TestKeyedMutexLockAllDeduplicates(t *testing.T) {
	k := NewKeyedMutex()
	unlock, err := k.LockAll(context.Background(), "b", "a", "b", "")
	require.NoError(t, err)
	assert.Equal(t, 2, k.Len())
	unlock()
	assert.Equal(t, 0, k.Len())
}

func TestKeyedMutexLockAllReleasesOnFailure(t *testing.T) {
	k := NewKeyedMutex()
	held, err := k.Lock(context.Background(), "b")
	require.NoError(t, err)
	defer held()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = k.LockAll(ctx, "a", "b")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// "a" was taken first and must be free again.
	unlock, err := k.Lock(context.Background(), "a")
	require.NoError(t, err)
	unlock()
	assert.Equal(t, 1, k.Len())
}

func TestUniqueSorted(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, uniqueSorted([]string{"c", "a", "b", "a"}))
}
