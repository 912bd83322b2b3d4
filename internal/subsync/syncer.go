package subsync

import (
	"sync"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"gorm.io/gorm"

	"github.com/eryajf/femcare/internal/model"
)

// Syncer 订阅同步器
// 单 goroutine 顺序消费事件,同一用户的镜像写入与订阅写入保持相同的相对顺序
type Syncer struct {
	db     *gorm.DB
	events chan Event
	wg     sync.WaitGroup
	once   sync.Once
}

// NewSyncer 创建订阅同步器
func NewSyncer(db *gorm.DB) *Syncer {
	return &Syncer{
		db:     db,
		events: make(chan Event, 64),
	}
}

// Start 启动同步工作协程
func (s *Syncer) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for e := range s.events {
			s.apply(e)
		}
	}()
}

// Stop 停止同步器,排空剩余事件后返回
func (s *Syncer) Stop() {
	s.once.Do(func() {
		close(s.events)
	})
	s.wg.Wait()
}

// Notify 投递一个已提交的订阅写入事件
// 阻塞式发送,保证事件按提交顺序进入队列
func (s *Syncer) Notify(e Event) {
	s.events <- e
}

// apply 将事件合并写入用户文档
// 单列更新:镜像字段整体一次写入,不分阶段,不覆盖用户文档的其他字段
// Select 限定列名并以模型结构体赋值,镜像经 JSON 序列化器落库
// 失败只记日志不上抛,也不重试
func (s *Syncer) apply(e Event) {
	mirror := Decide(e, time.Now())

	result := s.db.Model(&model.User{}).
		Where("user_id = ?", e.UserID).
		Select("subscription").
		Updates(&model.User{Subscription: mirror})

	if result.Error != nil {
		logx.Error("Failed to sync subscription mirror for user %s: %v", e.UserID, result.Error)
		return
	}

	if result.RowsAffected == 0 {
		logx.Warn("Subscription sync: user %s not found, mirror not written", e.UserID)
		return
	}

	logx.Info("Synced subscription mirror for user %s (tier=%s, status=%s)", e.UserID, mirror.Tier, mirror.Status)
}
