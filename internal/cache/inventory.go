package cache

import (
	"context"
	"time"
)

// Project detail is deliberately uncached: every fetch bumps the view
// counter, so serving it from Redis would freeze the count.
const (
	HomeFeedKey = "home_feed"
	AboutKey    = "about"
)

const (
	HomeFeedTTL = 1 * time.Minute
	AboutTTL    = 30 * time.Minute
)

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateHomeFeed drops the cached home feed. Called on every mutation
// that can change featured/latest/popular ordering: project save or delete
// and like toggles.
func InvalidateHomeFeed(ctx context.Context) {
	Invalidate(ctx, HomeFeedKey)
}

func InvalidateAbout(ctx context.Context) {
	Invalidate(ctx, AboutKey)
}
