package refresh

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-admin-session/apimodel"
	"github.com/jrsteele09/go-admin-session/credentials"
	"github.com/jrsteele09/go-admin-session/storage"
)

func TestCoordinator_QueueIsFIFO(t *testing.T) {
	store := credentials.New(storage.NewMemory(), storage.NewKeys(""), credentials.WithLogger(zerolog.Nop()))
	store.Set("a", "r")

	release := make(chan struct{})
	c := NewCoordinator(store, func(context.Context, string) (apimodel.TokenPair, error) {
		<-release
		return apimodel.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil
	}, WithLogger(zerolog.Nop()))

	go func() { _, _ = c.Refresh(context.Background()) }()
	require.Eventually(t, func() bool { return c.Stats().Refreshing }, time.Second, time.Millisecond)

	var arrivals []*pending
	for i := range 5 {
		go func() { _, _ = c.Refresh(context.Background()) }()
		require.Eventually(t, func() bool { return c.Stats().Queued == i+1 }, time.Second, time.Millisecond)

		c.mu.Lock()
		arrivals = append(arrivals, c.queue[i])
		c.mu.Unlock()
	}

	c.mu.Lock()
	require.Equal(t, arrivals, c.queue)
	c.mu.Unlock()

	close(release)
	require.Eventually(t, func() bool { return !c.Stats().Refreshing }, time.Second, time.Millisecond)
}

func TestCoordinator_SettleClearsFlagWithDrain(t *testing.T) {
	c := NewCoordinator(nil, nil, WithLogger(zerolog.Nop()))
	c.refreshing = true
	first := &pending{ch: make(chan result, 1)}
	second := &pending{ch: make(chan result, 1)}
	c.queue = []*pending{first, second}

	n := c.settle(result{token: "t"}, false)

	require.Equal(t, 2, n)
	require.False(t, c.refreshing)
	require.Empty(t, c.queue)
	require.Equal(t, "t", (<-first.ch).token)
	require.Equal(t, "t", (<-second.ch).token)
	require.False(t, c.remove(first), "settled entries cannot be removed again")
}
