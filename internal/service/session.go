package service

import (
	"context"
	"sync"
	"time"

	"github.com/user/moovie-discover/internal/logging"
	"github.com/user/moovie-discover/internal/metrics"
	"github.com/user/moovie-discover/internal/repository"
	"github.com/user/moovie-discover/internal/utils"
)

// BrowseSession 单个访客的浏览状态
type BrowseSession struct {
	ID        string
	Home      *Home
	Discover  *Discover
	Watchlist *Watchlist
	cancel    context.CancelFunc
}

// Close 停止防抖并取消会话内仍在进行的加载
func (s *BrowseSession) Close() {
	s.Discover.Close()
	s.cancel()
}

// SessionOptions 会话管理配置
type SessionOptions struct {
	Catalog  Catalog
	Store    repository.KeyValueStore
	Debounce time.Duration
	IdleTTL  time.Duration
	// BaseYear 为首页 "Best of" 轮播选取中心年份，nil 时随机
	BaseYear func() int
}

// SessionManager 按访客 ID 保存浏览会话，空闲超时后释放
type SessionManager struct {
	opts     SessionOptions
	sessions *utils.TTLCache[*BrowseSession]
	mu       sync.Mutex
}

func NewSessionManager(opts SessionOptions) *SessionManager {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 30 * time.Minute
	}
	if opts.BaseYear == nil {
		opts.BaseYear = func() int { return RandomBaseYear(nil) }
	}
	cleanup := opts.IdleTTL / 2
	if cleanup < time.Second {
		cleanup = time.Second
	}

	m := &SessionManager{
		opts:     opts,
		sessions: utils.NewTTLCache[*BrowseSession](opts.IdleTTL, cleanup),
	}
	m.sessions.OnEvicted(func(id string, s *BrowseSession) {
		s.Close()
		metrics.ActiveSessions.Dec()
		logging.Debug().Str("visitor", id).Msg("[Session] 会话已释放")
	})
	return m
}

// Get 获取访客会话，不存在时创建，每次访问刷新空闲计时
func (m *SessionManager) Get(visitorID string) *BrowseSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions.Get(visitorID); ok {
		m.sessions.Touch(visitorID)
		return s
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &BrowseSession{
		ID:        visitorID,
		Home:      NewHome(m.opts.Catalog, m.opts.BaseYear()),
		Discover:  NewDiscover(ctx, m.opts.Catalog, m.opts.Debounce),
		Watchlist: NewWatchlist(m.opts.Store, m.opts.Catalog, WatchlistKey+":"+visitorID),
		cancel:    cancel,
	}
	m.sessions.Set(visitorID, s)
	metrics.ActiveSessions.Inc()
	logging.Debug().Str("visitor", visitorID).Msg("[Session] 新建会话")
	return s
}

// Len 当前会话数
func (m *SessionManager) Len() int {
	return m.sessions.Len()
}

// Close 释放所有会话
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.sessions.Items() {
		m.sessions.Delete(id)
	}
}
