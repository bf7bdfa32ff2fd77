package valkeyx

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// SetStringEX: 값을 TTL 과 함께 저장한다. ttl 이 0 이하이면 만료 없이 저장한다.
func SetStringEX(ctx context.Context, client valkey.Client, key string, value string, ttl time.Duration) error {
	var cmd valkey.Completed
	if ttl > 0 {
		cmd = client.B().Set().Key(key).Value(value).Px(ttl).Build()
	} else {
		cmd = client.B().Set().Key(key).Value(value).Build()
	}
	if err := client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set %s failed: %w", key, err)
	}
	return nil
}

// GetBytes: 키의 값을 바이트로 읽는다. 키가 없으면 (nil, false, nil) 을 반환한다.
func GetBytes(ctx context.Context, client valkey.Client, key string) ([]byte, bool, error) {
	raw, err := client.Do(ctx, client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if IsNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s failed: %w", key, err)
	}
	return raw, true, nil
}

// DeleteKeys: 여러 키를 한 번에 삭제하고 삭제된 개수를 반환한다.
func DeleteKeys(ctx context.Context, client valkey.Client, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := client.Do(ctx, client.B().Del().Key(keys...).Build()).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("del failed: %w", err)
	}
	return n, nil
}

// Expire: 키의 TTL 을 갱신한다. 키가 없으면 false 를 반환한다.
func Expire(ctx context.Context, client valkey.Client, key string, ttl time.Duration) (bool, error) {
	ok, err := client.Do(ctx, client.B().Pexpire().Key(key).Milliseconds(ttl.Milliseconds()).Build()).AsBool()
	if err != nil {
		return false, fmt.Errorf("pexpire %s failed: %w", key, err)
	}
	return ok, nil
}

// ScanKeys: SCAN 으로 패턴에 매칭되는 키를 limit 개까지 수집한다. limit 이 0 이하이면 전부 수집한다.
func ScanKeys(ctx context.Context, client valkey.Client, pattern string, limit int) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		entry, err := client.Do(ctx, client.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build()).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("scan %s failed: %w", pattern, err)
		}
		keys = append(keys, entry.Elements...)
		if limit > 0 && len(keys) >= limit {
			return keys[:limit], nil
		}
		if entry.Cursor == 0 {
			return keys, nil
		}
		cursor = entry.Cursor
	}
}
