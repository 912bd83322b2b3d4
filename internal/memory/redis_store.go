package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eryajf/femcare/internal/conversation"
)

// RedisStore Redis 缓存层
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore 创建 Redis 缓存
func NewRedisStore(addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

// History 获取会话历史（Redis）
func (r *RedisStore) History(conversationID uint) ([]conversation.Turn, error) {
	key := historyKey(conversationID)
	ctx := context.Background()

	result, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	var turns []conversation.Turn
	for _, item := range result {
		var t conversation.Turn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			continue
		}
		turns = append(turns, t)
	}

	return turns, nil
}

// Append 追加消息到会话历史
func (r *RedisStore) Append(conversationID uint, turns ...conversation.Turn) error {
	key := historyKey(conversationID)
	ctx := context.Background()

	for _, t := range turns {
		data, err := json.Marshal(t)
		if err != nil {
			continue
		}
		if err := r.client.RPush(ctx, key, data).Err(); err != nil {
			return err
		}
	}

	// 更新过期时间
	return r.client.Expire(ctx, key, r.ttl).Err()
}

// Clear 清空会话历史
func (r *RedisStore) Clear(conversationID uint) error {
	return r.client.Del(context.Background(), historyKey(conversationID)).Err()
}

func historyKey(conversationID uint) string {
	return fmt.Sprintf("conv:%d:history", conversationID)
}
