package memory

import (
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/eryajf/femcare/internal/conversation"
)

// LocalStore 进程内 TTL 缓存,单实例部署或 Redis 不可用时的降级方案
type LocalStore struct {
	cache *cache.Cache
}

// NewLocalStore 创建进程内缓存
func NewLocalStore(ttl time.Duration) *LocalStore {
	return &LocalStore{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

// History 获取会话历史
func (l *LocalStore) History(conversationID uint) ([]conversation.Turn, error) {
	if cached, found := l.cache.Get(localKey(conversationID)); found {
		if turns, ok := cached.([]conversation.Turn); ok {
			return turns, nil
		}
	}
	return nil, nil
}

// Append 追加消息到会话历史
func (l *LocalStore) Append(conversationID uint, turns ...conversation.Turn) error {
	existing, _ := l.History(conversationID)
	l.cache.Set(localKey(conversationID), append(existing, turns...), cache.DefaultExpiration)
	return nil
}

// Clear 清空会话历史
func (l *LocalStore) Clear(conversationID uint) error {
	l.cache.Delete(localKey(conversationID))
	return nil
}

func localKey(conversationID uint) string {
	return fmt.Sprintf("conv:%d", conversationID)
}
