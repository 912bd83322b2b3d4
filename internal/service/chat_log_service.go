package service

import (
	"gorm.io/gorm"

	"github.com/eryajf/femcare/internal/model"
)

// ChatLogService 对话日志服务
type ChatLogService struct {
	db *gorm.DB
}

// NewChatLogService 创建对话日志服务实例
func NewChatLogService(db *gorm.DB) *ChatLogService {
	return &ChatLogService{db: db}
}

// CreateChatLog 创建对话日志
func (s *ChatLogService) CreateChatLog(log *model.ChatLog) error {
	return s.db.Create(log).Error
}

// CreateUserMessage 创建用户消息日志
func (s *ChatLogService) CreateUserMessage(userID, category, content string, conversationID uint) (*model.ChatLog, error) {
	log := &model.ChatLog{
		UserID:         userID,
		Category:       category,
		ChatType:       1, // 1=用户提问
		ParentID:       0,
		ConversationID: conversationID,
		Content:        content,
	}
	if err := s.CreateChatLog(log); err != nil {
		return nil, err
	}
	return log, nil
}

// CreateAIMessage 创建AI回复日志
func (s *ChatLogService) CreateAIMessage(userID, category, content string, parentID, conversationID uint) (*model.ChatLog, error) {
	log := &model.ChatLog{
		UserID:         userID,
		Category:       category,
		ChatType:       2, // 2=AI回答
		ParentID:       parentID,
		ConversationID: conversationID,
		Content:        content,
	}
	if err := s.CreateChatLog(log); err != nil {
		return nil, err
	}
	return log, nil
}

// ListChatLogs 列出对话日志
func (s *ChatLogService) ListChatLogs(userID, category string, chatType, limit, offset int) ([]model.ChatLog, int64, error) {
	query := s.db.Model(&model.ChatLog{})

	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if chatType > 0 {
		query = query.Where("chat_type = ?", chatType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.ChatLog
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error

	return logs, total, err
}
