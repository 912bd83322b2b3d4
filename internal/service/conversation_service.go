package service

import (
	"time"

	"gorm.io/gorm"

	"github.com/eryajf/femcare/internal/model"
)

// ConversationService 会话服务
type ConversationService struct {
	db *gorm.DB
}

// NewConversationService 创建会话服务实例
func NewConversationService(db *gorm.DB) *ConversationService {
	return &ConversationService{db: db}
}

// CreateConversation 创建会话
func (s *ConversationService) CreateConversation(userID, title, category string) (*model.Conversation, error) {
	conversation := &model.Conversation{
		UserID:        userID,
		Title:         title,
		Category:      category,
		LastMessageAt: time.Now(),
	}
	if err := s.db.Create(conversation).Error; err != nil {
		return nil, err
	}
	return conversation, nil
}

// GetConversation 获取会话
func (s *ConversationService) GetConversation(id uint) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := s.db.First(&conversation, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

// ListConversations 分页列出用户的会话列表
func (s *ConversationService) ListConversations(userID string, limit, offset int) ([]model.Conversation, int64, error) {
	query := s.db.Model(&model.Conversation{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var conversations []model.Conversation
	err := query.Order("last_message_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&conversations).Error
	return conversations, total, err
}

// UpdateLastMessageAt 更新会话最后消息时间
func (s *ConversationService) UpdateLastMessageAt(id uint) error {
	return s.db.Model(&model.Conversation{}).
		Where("id = ?", id).
		Update("last_message_at", time.Now()).Error
}

// DeleteConversation 删除会话（软删除）
func (s *ConversationService) DeleteConversation(id uint) error {
	// 删除会话下的所有消息
	if err := s.db.Where("conversation_id = ?", id).Delete(&model.ChatLog{}).Error; err != nil {
		return err
	}
	// 删除会话
	return s.db.Delete(&model.Conversation{}, id).Error
}

// GetConversationMessages 获取会话的所有消息
func (s *ConversationService) GetConversationMessages(conversationID uint) ([]model.ChatLog, error) {
	var messages []model.ChatLog
	err := s.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
