package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"parley/internal/observability"
)

// Key inventory. Every cached value in the application uses one of these
// builders so invalidation sites can be audited in one place.
const (
	UserKeyPrefix        = "user:%d"
	PostKeyPrefix        = "post:%d"
	PostsListKey         = "posts:all"
	CommentTreeKeyPrefix = "post:%d:comments"
)

const (
	UserTTL        = 5 * time.Minute
	PostTTL        = 30 * time.Minute
	PostsListTTL   = 2 * time.Minute
	CommentTreeTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func CommentTreeKey(postID uint) string {
	return fmt.Sprintf(CommentTreeKeyPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops the post entry, the post list, and the post's comment
// tree. Like counters and comment mutations all funnel through here.
func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, PostsListKey)
	Invalidate(ctx, CommentTreeKey(postID))
}

func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, PostsListKey)
}

func InvalidateCommentTree(ctx context.Context, postID uint) {
	Invalidate(ctx, CommentTreeKey(postID))
}

// Aside implements the cache-aside pattern: return the cached JSON value for
// key if present, otherwise call load, cache its result with the given TTL,
// and return it. Redis being down degrades to calling load directly.
func Aside[T any](ctx context.Context, key, keyClass string, ttl time.Duration, load func() (T, error)) (T, error) {
	var zero T

	if client != nil {
		raw, err := client.Get(ctx, key).Result()
		if err == nil {
			var cached T
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				observability.RecordCacheResult(keyClass, true)
				return cached, nil
			}
			// Unparseable entry: drop it and fall through to load.
			client.Del(ctx, key)
		}
	}
	observability.RecordCacheResult(keyClass, false)

	value, err := load()
	if err != nil {
		return zero, err
	}

	if client != nil {
		if raw, err := json.Marshal(value); err == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}
	return value, nil
}
