package service

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/eryajf/femcare/internal/model"
	"github.com/eryajf/femcare/internal/subsync"
)

// SubscriptionService 订阅服务，负责订阅记录的增删改查，
// 变更提交后通过 syncer 异步同步到用户镜像
// 写入和事件投递在同一临界区内完成，
// 事件进入队列的顺序与订阅记录的提交顺序一致
type SubscriptionService struct {
	db     *gorm.DB
	syncer *subsync.Syncer
	mu     sync.Mutex
}

// NewSubscriptionService 创建订阅服务实例
func NewSubscriptionService(db *gorm.DB, syncer *subsync.Syncer) *SubscriptionService {
	return &SubscriptionService{db: db, syncer: syncer}
}

// Get 查询某用户的订阅记录，不存在时返回 nil
func (s *SubscriptionService) Get(userID string) (*model.Subscription, error) {
	var sub model.Subscription
	if err := s.db.Where("user_id = ?", userID).First(&sub).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// Upsert 创建或更新订阅记录，提交成功后触发镜像同步
func (s *SubscriptionService) Upsert(userID, tier, status string, credits float64) (*model.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var sub model.Subscription
	err := s.db.Where("user_id = ?", userID).First(&sub).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		sub = model.Subscription{
			UserID:                userID,
			Tier:                  tier,
			Status:                status,
			DailyCreditsRemaining: credits,
			UpdatedAt:             now,
		}
		if err := s.db.Create(&sub).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		sub.Tier = tier
		sub.Status = status
		sub.DailyCreditsRemaining = credits
		sub.UpdatedAt = now
		if err := s.db.Save(&sub).Error; err != nil {
			return nil, err
		}
	}

	s.syncer.Notify(subsync.Event{UserID: userID, After: &sub})
	return &sub, nil
}

// Delete 删除订阅记录，提交成功后触发镜像回落为默认值
func (s *SubscriptionService) Delete(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Where("user_id = ?", userID).Delete(&model.Subscription{}).Error; err != nil {
		return err
	}
	s.syncer.Notify(subsync.Event{UserID: userID, After: nil})
	return nil
}
