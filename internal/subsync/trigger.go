package subsync

import (
	"time"

	"github.com/eryajf/femcare/internal/model"
)

// Event 订阅记录的一次已提交写入
// After 为 nil 表示该记录在写入之后已不存在(删除迁移)
type Event struct {
	UserID string
	After  *model.Subscription
}

// Decide 由事件推导用户文档上应有的订阅镜像
// 纯函数,与事件投递机制解耦:删除 → 确定性默认值;新建/更新 → 记录字段原样镜像
func Decide(e Event, now time.Time) *model.SubscriptionMirror {
	if e.After == nil {
		return model.DefaultMirror(now)
	}
	return e.After.Mirror()
}
