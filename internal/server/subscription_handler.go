package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eryajf/femcare/internal/apperr"
	"github.com/eryajf/femcare/internal/model"
	"github.com/eryajf/femcare/internal/service"
	"github.com/eryajf/femcare/internal/subsync"
)

// SubscriptionHandler 订阅写入口
// 每次写入提交后触发一次镜像同步事件,同一用户的事件按提交顺序送达
type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

// NewSubscriptionHandler 创建订阅处理器
func NewSubscriptionHandler(db *gorm.DB, syncer *subsync.Syncer) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: service.NewSubscriptionService(db, syncer),
	}
}

// UpsertSubscriptionRequest 订阅创建/更新请求
type UpsertSubscriptionRequest struct {
	Tier                  string  `json:"tier" binding:"required"`
	Status                string  `json:"status" binding:"required"`
	DailyCreditsRemaining float64 `json:"daily_credits_remaining"`
}

// Get 查询订阅
func (h *SubscriptionHandler) Get(c *gin.Context) {
	userID := c.Param("user_id")

	sub, err := h.subscriptionService.Get(userID)
	if err != nil {
		fail(c, apperr.Wrap(apperr.Internal, "Failed to query subscription", err))
		return
	}
	if sub == nil {
		c.JSON(http.StatusNotFound, model.Response{
			Code:    404,
			Message: "Subscription not found",
		})
		return
	}

	success(c, sub)
}

// Upsert 创建或更新订阅
func (h *SubscriptionHandler) Upsert(c *gin.Context) {
	userID := c.Param("user_id")

	var req UpsertSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Wrap(apperr.InvalidArgument, "Invalid request body", err))
		return
	}

	sub, err := h.subscriptionService.Upsert(userID, req.Tier, req.Status, req.DailyCreditsRemaining)
	if err != nil {
		fail(c, apperr.Wrap(apperr.Internal, "Failed to save subscription", err))
		return
	}

	success(c, sub)
}

// Delete 删除订阅,用户镜像随后回落为默认值
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	userID := c.Param("user_id")

	if err := h.subscriptionService.Delete(userID); err != nil {
		fail(c, apperr.Wrap(apperr.Internal, "Failed to delete subscription", err))
		return
	}

	success(c, nil)
}
