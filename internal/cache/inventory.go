package cache

import (
	"context"
	"fmt"
	"time"
)

// TTLs for cached query results.
const (
	// LeaderboardTTL bounds staleness of the bullshitters leaderboard
	// between submissions.
	LeaderboardTTL = 30 * time.Second

	// TimelineTTL bounds staleness of the default timeline page.
	TimelineTTL = 15 * time.Second
)

// BullshittersKey is the cache key for the full bullshitters leaderboard.
func BullshittersKey() string {
	return "famenet:bullshitters"
}

// TimelineKey is the per-user cache key for the default timeline page.
func TimelineKey(userID uint, community, published bool) string {
	return fmt.Sprintf("famenet:timeline:%d:%t:%t", userID, community, published)
}

// Invalidate removes a single cache key, best-effort.
func Invalidate(ctx context.Context, key string) {
	if client == nil {
		return
	}
	_ = client.Del(ctx, key).Err()
}
