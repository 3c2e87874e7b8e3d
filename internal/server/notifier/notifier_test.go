package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/atlas/pkg/core"
)

func TestNotifier_SubscribeUnsubscribe(t *testing.T) {
	n := New()
	ch := n.Subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Len())

	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Len())
	_, open := <-ch
	assert.False(t, open, "unsubscribe closes the channel")

	assert.NotPanics(t, func() { n.Unsubscribe(ch) }, "double unsubscribe is a no-op")
}

func TestNotifier_Broadcast(t *testing.T) {
	n := New()
	ch1 := n.Subscribe()
	ch2 := n.Subscribe()
	defer n.Unsubscribe(ch1)
	defer n.Unsubscribe(ch2)

	n.Broadcast(core.SnapshotHeader{ID: "seo-1", Kind: core.KindSEO})

	for _, ch := range []chan core.SnapshotHeader{ch1, ch2} {
		select {
		case h := <-ch:
			assert.Equal(t, "seo-1", h.ID)
		case <-time.After(100 * time.Millisecond):
			t.Fatal("subscriber did not receive broadcast")
		}
	}
}

func TestNotifier_BroadcastNonBlocking(t *testing.T) {
	n := New()
	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	done := make(chan struct{})
	go func() {
		for i := 0; i < Buffer*3; i++ {
			n.Broadcast(core.SnapshotHeader{Kind: core.KindESA})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full subscriber")
	}
	assert.Len(t, ch, Buffer)
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch := n.Subscribe()
			n.Unsubscribe(ch)
		}()
		go func() {
			defer wg.Done()
			n.Broadcast(core.SnapshotHeader{Kind: core.KindContent})
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, n.Len())
}
