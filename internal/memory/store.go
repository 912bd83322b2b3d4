package memory

import (
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"

	"github.com/eryajf/femcare/internal/config"
	"github.com/eryajf/femcare/internal/conversation"
)

// Store 会话历史缓存
// 只是读路径的加速层,权威数据始终在数据库的 chat_logs 里
type Store interface {
	// History 获取会话的缓存历史,未命中返回 nil
	History(conversationID uint) ([]conversation.Turn, error)
	// Append 追加消息到会话历史
	Append(conversationID uint, turns ...conversation.Turn) error
	// Clear 清空会话历史
	Clear(conversationID uint) error
}

// NewStore 根据配置创建缓存
// Redis 不可用时降级为进程内缓存,不阻塞启动
func NewStore(cfg config.CacheConfig) Store {
	ttl := time.Duration(cfg.TTL) * time.Second
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	if cfg.Type == "redis" {
		store, err := NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, ttl)
		if err != nil {
			logx.Warn("Failed to connect to redis, falling back to in-memory cache: %v", err)
		} else {
			logx.Info("Conversation cache backed by redis at %s", cfg.Redis.Addr)
			return store
		}
	}

	return NewLocalStore(ttl)
}
