package server

import (
	"net/http"
	"strconv"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eryajf/femcare/internal/apperr"
	"github.com/eryajf/femcare/internal/memory"
	"github.com/eryajf/femcare/internal/middleware"
	"github.com/eryajf/femcare/internal/model"
	"github.com/eryajf/femcare/internal/service"
)

// HistoryHandler 会话历史查询和管理
type HistoryHandler struct {
	conversationService *service.ConversationService
	chatLogService      *service.ChatLogService
	store               memory.Store
}

// NewHistoryHandler 创建历史处理器
func NewHistoryHandler(db *gorm.DB, store memory.Store) *HistoryHandler {
	return &HistoryHandler{
		conversationService: service.NewConversationService(db),
		chatLogService:      service.NewChatLogService(db),
		store:               store,
	}
}

// pagination 解析分页参数
func pagination(c *gin.Context) (pageNum, pageSize int) {
	pageNum, _ = strconv.Atoi(c.DefaultQuery("page_num", "1"))
	if pageNum < 1 {
		pageNum = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return pageNum, pageSize
}

// pageInfo 组装分页信息
func pageInfo(pageNum, pageSize int, total int64) *model.PageInfo {
	totalPage := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPage++
	}
	return &model.PageInfo{
		PageNum:   pageNum,
		PageSize:  pageSize,
		Total:     int(total),
		TotalPage: totalPage,
	}
}

// ListConversations 分页列出当前用户的会话
func (h *HistoryHandler) ListConversations(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		fail(c, apperr.New(apperr.Unauthenticated, "The function must be called while authenticated."))
		return
	}

	pageNum, pageSize := pagination(c)
	conversations, total, err := h.conversationService.ListConversations(userID, pageSize, (pageNum-1)*pageSize)
	if err != nil {
		fail(c, apperr.Wrap(apperr.Internal, "Failed to list conversations", err))
		return
	}

	success(c, model.ListResponse{
		Items:    conversations,
		PageInfo: pageInfo(pageNum, pageSize, total),
	})
}

// GetMessages 获取某个会话的全部消息，只允许会话属主读取
func (h *HistoryHandler) GetMessages(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		fail(c, apperr.New(apperr.Unauthenticated, "The function must be called while authenticated."))
		return
	}

	conv, ok := h.ownedConversation(c, userID)
	if !ok {
		return
	}

	messages, err := h.conversationService.GetConversationMessages(conv.ID)
	if err != nil {
		fail(c, apperr.Wrap(apperr.Internal, "Failed to query messages", err))
		return
	}

	success(c, gin.H{
		"total":    len(messages),
		"messages": messages,
	})
}

// DeleteConversation 删除某个会话及其消息，只允许会话属主删除
func (h *HistoryHandler) DeleteConversation(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		fail(c, apperr.New(apperr.Unauthenticated, "The function must be called while authenticated."))
		return
	}

	conv, ok := h.ownedConversation(c, userID)
	if !ok {
		return
	}

	if err := h.conversationService.DeleteConversation(conv.ID); err != nil {
		fail(c, apperr.Wrap(apperr.Internal, "Failed to delete conversation", err))
		return
	}
	if err := h.store.Clear(conv.ID); err != nil {
		logx.Warn("Failed to clear conversation %d cache: %v", conv.ID, err)
	}

	success(c, nil)
}

// ListChatLogs 分页列出当前用户的对话日志，可按类目和消息类型过滤
func (h *HistoryHandler) ListChatLogs(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		fail(c, apperr.New(apperr.Unauthenticated, "The function must be called while authenticated."))
		return
	}

	category := c.Query("category")
	chatType, _ := strconv.Atoi(c.DefaultQuery("chat_type", "0"))

	pageNum, pageSize := pagination(c)
	logs, total, err := h.chatLogService.ListChatLogs(userID, category, chatType, pageSize, (pageNum-1)*pageSize)
	if err != nil {
		fail(c, apperr.Wrap(apperr.Internal, "Failed to list chat logs", err))
		return
	}

	success(c, model.ListResponse{
		Items:    logs,
		PageInfo: pageInfo(pageNum, pageSize, total),
	})
}

// ownedConversation 解析路径中的会话 ID 并校验属主
// 校验失败时已写入响应，调用方直接返回即可
func (h *HistoryHandler) ownedConversation(c *gin.Context, userID string) (*model.Conversation, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, apperr.New(apperr.InvalidArgument, "Invalid conversation id"))
		return nil, false
	}

	conv, err := h.conversationService.GetConversation(uint(id))
	if err != nil {
		fail(c, apperr.Wrap(apperr.Internal, "Failed to query conversation", err))
		return nil, false
	}
	if conv == nil || conv.UserID != userID {
		c.JSON(http.StatusNotFound, model.Response{
			Code:    404,
			Message: "Conversation not found",
		})
		return nil, false
	}
	return conv, true
}
