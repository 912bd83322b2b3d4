package server

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eryajf/femcare/internal/model"
)

func createTestUser(t *testing.T, env *testEnv, userID string) {
	user := &model.User{
		UserID:   userID,
		Username: userID,
		Nickname: "Nick",
		Email:    userID + "@example.com",
		Enabled:  true,
	}
	require.NoError(t, user.SetPassword("secret"))
	require.NoError(t, env.db.Create(user).Error)
}

func TestSubscriptionUpsertSyncsMirror(t *testing.T) {
	env := newTestEnv(t, "test-key")
	createTestUser(t, env, "u1")

	w := env.do(http.MethodPut, "/api/v1/subscriptions/u1", gin.H{
		"tier":                    "premium",
		"status":                  "active",
		"daily_credits_remaining": 25.0,
	}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 排空同步队列后再断言镜像
	env.syncer.Stop()

	var user model.User
	require.NoError(t, env.db.Where("user_id = ?", "u1").First(&user).Error)
	require.NotNil(t, user.Subscription)
	assert.Equal(t, "premium", user.Subscription.Tier)
	assert.Equal(t, "active", user.Subscription.Status)
	assert.Equal(t, 25.0, user.Subscription.DailyCreditsRemaining)
	// 镜像之外的字段不受影响
	assert.Equal(t, "Nick", user.Nickname)
}

func TestSubscriptionDeleteResetsMirror(t *testing.T) {
	env := newTestEnv(t, "test-key")
	createTestUser(t, env, "u1")

	w := env.do(http.MethodPut, "/api/v1/subscriptions/u1", gin.H{
		"tier":   "premium",
		"status": "active",
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodDelete, "/api/v1/subscriptions/u1", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	env.syncer.Stop()

	var user model.User
	require.NoError(t, env.db.Where("user_id = ?", "u1").First(&user).Error)
	require.NotNil(t, user.Subscription)
	assert.Equal(t, "free", user.Subscription.Tier)
	assert.Equal(t, "expired", user.Subscription.Status)
	assert.Equal(t, 3.0, user.Subscription.DailyCreditsRemaining)

	// 订阅记录本身已删除
	var count int64
	require.NoError(t, env.db.Model(&model.Subscription{}).Where("user_id = ?", "u1").Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestSubscriptionGet(t *testing.T) {
	env := newTestEnv(t, "test-key")
	createTestUser(t, env, "u1")

	w := env.do(http.MethodGet, "/api/v1/subscriptions/u1", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPut, "/api/v1/subscriptions/u1", gin.H{
		"tier":   "plus",
		"status": "active",
	}, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/v1/subscriptions/u1", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tier":"plus"`)
}

func TestSubscriptionRequiresAuth(t *testing.T) {
	env := newTestEnv(t, "test-key")

	w := env.do(http.MethodPut, "/api/v1/subscriptions/u1", gin.H{
		"tier":   "premium",
		"status": "active",
	}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
