package cache

import (
	"context"
	"time"
)

// Cache interface định nghĩa contract cho cache layer.
// Cho phép swap implementation (Redis, in-memory cho tests).
type Cache interface {
	// Get lấy data từ cache và unmarshal vào dest.
	// Returns: (found bool, error)
	// - found = true: cache hit, data đã unmarshal vào dest
	// - found = false: cache miss, dest không bị thay đổi
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set lưu data vào cache với TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete xóa các keys khỏi cache.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern xóa tất cả keys match pattern (vd: "books:list:*").
	DeletePattern(ctx context.Context, pattern string) error

	// Exists kiểm tra key có tồn tại không.
	Exists(ctx context.Context, key string) (bool, error)

	// Ping kiểm tra connection.
	Ping(ctx context.Context) error
}
