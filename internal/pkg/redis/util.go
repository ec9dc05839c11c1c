package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrClientNotReady Redis 未初始化，调用方应当回源
var ErrClientNotReady = errors.New("redis client not ready")

const unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"

// SetWithExpiration 设置键值对并设置过期时间
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if Rdb == nil {
		return ErrClientNotReady
	}
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue 获取字符串类型的值，键不存在时返回空串
func GetValue(ctx context.Context, key string) (string, error) {
	if Rdb == nil {
		return "", ErrClientNotReady
	}
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// MGetValue 批量获取，结果与 keys 一一对应，未命中的位置为 nil
func MGetValue(ctx context.Context, keys ...string) ([]interface{}, error) {
	if Rdb == nil {
		return nil, ErrClientNotReady
	}
	if len(keys) == 0 {
		return nil, nil
	}
	return Rdb.MGet(ctx, keys...).Result()
}

// MSetWithExpiration 通过 pipeline 批量写入并统一设置过期时间
func MSetWithExpiration(ctx context.Context, values map[string]interface{}, expiration time.Duration) error {
	if Rdb == nil {
		return ErrClientNotReady
	}
	if len(values) == 0 {
		return nil
	}
	pipe := Rdb.Pipeline()
	for k, v := range values {
		pipe.Set(ctx, k, v, expiration)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// MSetNXWithExpiration 批量 SETNX，已存在的键保持原值
func MSetNXWithExpiration(ctx context.Context, values map[string]interface{}, expiration time.Duration) error {
	if Rdb == nil {
		return ErrClientNotReady
	}
	if len(values) == 0 {
		return nil
	}
	pipe := Rdb.Pipeline()
	for k, v := range values {
		pipe.SetNX(ctx, k, v, expiration)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// TryLock 尝试获取锁，retryTimes 为 -1 时一直重试
func TryLock(ctx context.Context, key string, value interface{}, expiration time.Duration, retryTimes int) (bool, error) {
	if Rdb == nil {
		return false, ErrClientNotReady
	}
	for i := 0; i < retryTimes || retryTimes == -1; i++ {
		success, err := Rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if success {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return false, nil
}

// UnLock 释放锁，只删除自己持有的锁
func UnLock(ctx context.Context, key string, value interface{}) {
	if Rdb == nil {
		return
	}
	Rdb.Eval(ctx, unlockScript, []string{key}, value)
}

// DeleteKey 删除键
func DeleteKey(ctx context.Context, keys ...string) error {
	if Rdb == nil {
		return ErrClientNotReady
	}
	if len(keys) == 0 {
		return nil
	}
	return Rdb.Del(ctx, keys...).Err()
}

// GetRdbClient 获取redis客户端
func GetRdbClient() *redis.Client {
	return Rdb
}
