package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishUser_NilClientIsNoop(t *testing.T) {
	var n *Notifier
	require.NoError(t, n.PublishUser(context.Background(), 1, Event{Kind: "like"}))

	n = NewNotifier(nil)
	require.NoError(t, n.PublishUser(context.Background(), 1, Event{Kind: "like"}))
}

func TestPublishAndSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	type received struct {
		channel string
		event   Event
	}
	got := make(chan received, 1)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, payload string) {
		var ev Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			t.Errorf("bad payload: %v", err)
			return
		}
		got <- received{channel: channel, event: ev}
	}))

	// Subscription setup races the publish; retry until delivered.
	ev := Event{Kind: "comment", ProjectID: 7, ActorID: 3, CreatedAt: time.Now().UTC()}
	deadline := time.After(2 * time.Second)
	for {
		require.NoError(t, n.PublishUser(ctx, 42, ev))
		select {
		case r := <-got:
			assert.Equal(t, "notifications:user:42", r.channel)
			assert.Equal(t, "comment", r.event.Kind)
			assert.Equal(t, uint(7), r.event.ProjectID)
			return
		case <-deadline:
			t.Fatal("event was never delivered")
		case <-time.After(20 * time.Millisecond):
		}
	}
}
