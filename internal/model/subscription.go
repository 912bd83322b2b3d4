package model

import "time"

// Subscription 订阅记录,以用户 ID 为键
// 由外部计费集成创建/更新,取消或过期清理时删除
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID                string    `json:"user_id" gorm:"uniqueIndex;size:100;not null"`
	Tier                  string    `json:"tier" gorm:"size:50"`
	Status                string    `json:"status" gorm:"size:50"`
	DailyCreditsRemaining float64   `json:"daily_credits_remaining"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Subscription) TableName() string {
	return "subscriptions"
}

// Mirror 生成该记录在用户文档上的镜像
func (s *Subscription) Mirror() *SubscriptionMirror {
	return &SubscriptionMirror{
		Tier:                  s.Tier,
		Status:                s.Status,
		DailyCreditsRemaining: s.DailyCreditsRemaining,
		UpdatedAt:             s.UpdatedAt,
	}
}
