package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SubscriptionMirror 用户文档中内嵌的订阅摘要
// 该字段只允许订阅同步器写入,其他组件一律只读
type SubscriptionMirror struct {
	Tier                  string    `json:"tier"`
	Status                string    `json:"status"`
	DailyCreditsRemaining float64   `json:"daily_credits_remaining"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// DefaultMirror 订阅记录不存在时的确定性默认值
func DefaultMirror(now time.Time) *SubscriptionMirror {
	return &SubscriptionMirror{
		Tier:                  "free",
		Status:                "expired",
		DailyCreditsRemaining: 3.0,
		UpdatedAt:             now,
	}
}

// User 用户模型
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID   string `gorm:"uniqueIndex;not null;size:100" json:"user_id"` // 对外的用户标识
	Username string `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Password string `gorm:"not null;size:255" json:"-"` // 不在 JSON 中返回密码
	Nickname string `gorm:"size:100" json:"nickname"`
	Email    string `gorm:"size:100" json:"email"`
	Enabled  bool   `gorm:"default:true" json:"enabled"`

	// 订阅镜像,整列以 JSON 序列化存储,更新时单列写入保证原子性
	Subscription *SubscriptionMirror `gorm:"serializer:json;type:text" json:"subscription,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// SetPassword 设置密码（加密）
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
