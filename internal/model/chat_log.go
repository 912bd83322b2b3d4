package model

import (
	"time"

	"gorm.io/gorm"
)

// ChatLog 对话记录模型
type ChatLog struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
	UserID         string         `json:"user_id" gorm:"index;size:100"`
	Category       string         `json:"category" gorm:"size:50"`      // pregnancy/fertility/skincare 等
	ChatType       int            `json:"chat_type" gorm:"index"`       // 1=用户提问, 2=AI回答
	ParentID       uint           `json:"parent_id"`                    // 父消息ID
	ConversationID uint           `json:"conversation_id" gorm:"index"` // 所属会话ID
	Content        string         `json:"content" gorm:"type:text"`
}

// TableName 指定表名
func (ChatLog) TableName() string {
	return "chat_logs"
}
