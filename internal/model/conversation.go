package model

import (
	"time"

	"gorm.io/gorm"
)

// Conversation 会话模型
type Conversation struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
	UserID        string         `json:"user_id" gorm:"index;size:100"` // 所属用户
	Title         string         `json:"title" gorm:"size:255"`         // 会话标题
	Category      string         `json:"category" gorm:"size:50"`       // 会话所属的健康类目
	LastMessageAt time.Time      `json:"last_message_at" gorm:"index"`  // 最后消息时间，用于排序
}

// TableName 指定表名
func (Conversation) TableName() string {
	return "conversations"
}
