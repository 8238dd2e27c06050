package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix  = "user:%d"
	workKeyPrefix  = "work:%d"
	groupKeyPrefix = "group:%d"
)

const (
	UserTTL  = 5 * time.Minute
	WorkTTL  = 10 * time.Minute
	GroupTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func WorkKey(workID uint) string {
	return fmt.Sprintf(workKeyPrefix, workID)
}

func GroupKey(groupID uint) string {
	return fmt.Sprintf(groupKeyPrefix, groupID)
}

// Invalidate removes a key from the cache (best-effort).
func Invalidate(ctx context.Context, key string) {
	if client == nil {
		return
	}
	client.Del(ctx, key)
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateWork(ctx context.Context, workID uint) {
	Invalidate(ctx, WorkKey(workID))
}

func InvalidateGroup(ctx context.Context, groupID uint) {
	Invalidate(ctx, GroupKey(groupID))
}
