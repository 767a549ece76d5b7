package broadcast

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOutDeliversToAllListeners(t *testing.T) {
	source := make(chan int)
	srv := NewBroadcastServer("test", source)
	defer srv.Close()

	first := srv.Subscribe()
	second := srv.Subscribe()

	go func() {
		for i := 0; i < 3; i++ {
			source <- i
		}
	}()

	for i := 0; i < 3; i++ {
		assert.Equal(t, i, <-first)
		assert.Equal(t, i, <-second)
	}
}

func TestCountersReadableWhilePublishing(t *testing.T) {
	source := make(chan int)
	srv := NewBroadcastServer("test", source)
	b := srv.(*broadcastServer[int])

	ch := srv.Subscribe()
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for range ch {
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// concurrent reads, same as the gauge callbacks
		for i := 0; i < 100; i++ {
			b.numRcv.Load()
			b.numSnd.Load()
			b.numSkip.Load()
			b.numListeners.Load()
		}
	}()

	for i := 0; i < 20; i++ {
		source <- i
	}
	wg.Wait()

	require.Eventually(t, func() bool { return b.numSnd.Load() == 20 },
		time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 20, b.numRcv.Load())
	assert.EqualValues(t, 1, b.numListeners.Load())

	srv.Close()
	<-drained
}

func TestCancelSubscriptionDropsListener(t *testing.T) {
	source := make(chan int)
	srv := NewBroadcastServer("test", source)
	defer srv.Close()
	b := srv.(*broadcastServer[int])

	ch := srv.Subscribe()
	require.Eventually(t, func() bool { return b.numListeners.Load() == 1 },
		time.Second, 10*time.Millisecond)

	srv.CancelSubscription(ch)
	require.Eventually(t, func() bool { return b.numListeners.Load() == 0 },
		time.Second, 10*time.Millisecond)

	_, open := <-ch
	assert.False(t, open)
}
