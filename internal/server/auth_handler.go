package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eryajf/femcare/internal/config"
	"github.com/eryajf/femcare/internal/middleware"
	"github.com/eryajf/femcare/internal/model"
	"github.com/eryajf/femcare/internal/service"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	config      *config.Config
	userService *service.UserService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		config:      cfg,
		userService: service.NewUserService(db),
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	UserInfo    UserInfoData `json:"userInfo"`
}

// UserInfoData 用户信息
type UserInfoData struct {
	ID           uint                      `json:"id"`
	UserID       string                    `json:"user_id"`
	Username     string                    `json:"username"`
	Nickname     string                    `json:"nickname"`
	Email        string                    `json:"email"`
	Subscription *model.SubscriptionMirror `json:"subscription,omitempty"`
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Response{
			Code:    400,
			Message: "Invalid request: " + err.Error(),
		})
		return
	}

	user, err := h.userService.GetByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.Response{
			Code:    500,
			Message: "Failed to query user",
		})
		return
	}
	if user == nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, model.Response{
			Code:    401,
			Message: "Invalid username or password",
		})
		return
	}
	if !user.Enabled {
		c.JSON(http.StatusForbidden, model.Response{
			Code:    403,
			Message: "User is disabled",
		})
		return
	}

	jwtCfg := middleware.JWTConfig{
		Secret:    h.config.Auth.JWTSecret,
		ExpireHrs: h.config.Auth.ExpireHrs,
	}
	token, err := middleware.GenerateToken(jwtCfg, user.UserID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.Response{
			Code:    500,
			Message: "Failed to generate token: " + err.Error(),
		})
		return
	}

	success(c, LoginResponse{
		AccessToken: token,
		UserInfo: UserInfoData{
			ID:           user.ID,
			UserID:       user.UserID,
			Username:     user.Username,
			Nickname:     user.Nickname,
			Email:        user.Email,
			Subscription: user.Subscription,
		},
	})
}

// GetUserInfo 获取当前用户信息,订阅镜像一并返回
func (h *AuthHandler) GetUserInfo(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.Response{
			Code:    401,
			Message: "The function must be called while authenticated.",
		})
		return
	}

	user, err := h.userService.GetByUserID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.Response{
			Code:    500,
			Message: "Failed to query user",
		})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, model.Response{
			Code:    404,
			Message: "User not found",
		})
		return
	}

	success(c, UserInfoData{
		ID:           user.ID,
		UserID:       user.UserID,
		Username:     user.Username,
		Nickname:     user.Nickname,
		Email:        user.Email,
		Subscription: user.Subscription,
	})
}
