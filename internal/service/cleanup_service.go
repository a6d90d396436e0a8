package service

import (
	"context"
	"time"

	"github.com/user/moovie-discover/internal/logging"
)

// Purger 可清理过期缓存的组件
type Purger interface {
	PurgeExpired() int
}

// CleanupService 定时清理过期缓存
type CleanupService struct {
	purger   Purger
	interval time.Duration
	done     chan struct{}
}

// NewCleanupService 创建清理服务
func NewCleanupService(purger Purger, interval time.Duration) *CleanupService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &CleanupService{purger: purger, interval: interval, done: make(chan struct{})}
}

// Start 启动定时清理任务，ctx 取消后退出
func (s *CleanupService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)

	go func() {
		defer close(s.done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logging.Info().Msg("[CleanupService] 已停止")
				return
			case <-ticker.C:
				s.RunOnce()
			}
		}
	}()
}

// Wait 等待清理协程退出
func (s *CleanupService) Wait() {
	<-s.done
}

// RunOnce 执行一次清理
func (s *CleanupService) RunOnce() int {
	purged := s.purger.PurgeExpired()
	if purged > 0 {
		logging.Info().Int("purged", purged).Msg("[CleanupService] 已清理过期搜索缓存")
	}
	return purged
}
