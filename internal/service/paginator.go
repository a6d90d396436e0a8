package service

import (
	"context"
	"sync"

	"github.com/user/moovie-discover/internal/metrics"
	"github.com/user/moovie-discover/internal/model"
)

// ListStatus 分页列表状态
type ListStatus string

const (
	StatusIdle        ListStatus = "idle"
	StatusLoading     ListStatus = "loading"
	StatusLoaded      ListStatus = "loaded"
	StatusLoadingMore ListStatus = "loading_more"
)

// PageFetcher 拉取指定页
type PageFetcher func(ctx context.Context, page int) model.PagedResult

// PageState 分页列表快照
type PageState struct {
	Status       ListStatus    `json:"status"`
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
	Results      []model.Movie `json:"results"`
}

// Paginator 分页累加控制器（轮播和发现页共用）
//
// 同一时刻只允许一个"加载下一页"请求；Reset 会递增代数，
// 旧代数的请求返回后直接丢弃，不做取消。
type Paginator struct {
	mu           sync.Mutex
	fetch        PageFetcher
	prefetch     int
	status       ListStatus
	page         int
	totalPages   int
	totalResults int
	results      []model.Movie
	generation   uint64
}

// NewPaginator prefetch 为首次加载时连续拉取的页数（发现页为 2）
func NewPaginator(fetch PageFetcher, prefetch int) *Paginator {
	if prefetch < 1 {
		prefetch = 1
	}
	return &Paginator{
		fetch:    fetch,
		prefetch: prefetch,
		status:   StatusIdle,
		results:  []model.Movie{},
	}
}

// Load 从第 1 页重新加载
func (p *Paginator) Load(ctx context.Context) PageState {
	return p.Reset(ctx, nil)
}

// Reset 丢弃已累积的结果并用新的 fetcher 从第 1 页加载，fetch 为 nil 时沿用原来的
func (p *Paginator) Reset(ctx context.Context, fetch PageFetcher) PageState {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	if fetch != nil {
		p.fetch = fetch
	}
	fetch = p.fetch
	p.status = StatusLoading
	p.page = 0
	p.totalPages = 0
	p.totalResults = 0
	p.results = []model.Movie{}
	p.mu.Unlock()

	results := []model.Movie{}
	pages, totalPages, totalResults := 0, 0, 0
	for page := 1; page <= p.prefetch; page++ {
		res := fetch(ctx, page)
		results = append(results, res.Results...)
		pages = page
		if res.TotalPages > totalPages {
			totalPages = res.TotalPages
			totalResults = res.TotalResults
		}
		if totalPages > 0 && page >= totalPages {
			break
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		metrics.StaleResponses.Inc()
		return p.snapshotLocked()
	}
	p.results = results
	p.page = pages
	p.totalPages = totalPages
	p.totalResults = totalResults
	p.status = StatusLoaded
	return p.snapshotLocked()
}

// LoadMore 拉取下一页并追加到末尾。已有请求在途、尚未加载完成或已到最后一页时不做任何事，返回 false
func (p *Paginator) LoadMore(ctx context.Context) bool {
	p.mu.Lock()
	if p.status != StatusLoaded || (p.totalPages > 0 && p.page >= p.totalPages) {
		p.mu.Unlock()
		return false
	}
	p.status = StatusLoadingMore
	gen := p.generation
	next := p.page + 1
	fetch := p.fetch
	p.mu.Unlock()

	res := fetch(ctx, next)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		metrics.StaleResponses.Inc()
		return true
	}
	p.results = append(p.results, res.Results...)
	p.page = next
	if res.TotalPages > 0 {
		p.totalPages = res.TotalPages
		p.totalResults = res.TotalResults
	}
	p.status = StatusLoaded
	return true
}

// Snapshot 当前状态的拷贝
func (p *Paginator) Snapshot() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Paginator) snapshotLocked() PageState {
	return PageState{
		Status:       p.status,
		Page:         p.page,
		TotalPages:   p.totalPages,
		TotalResults: p.totalResults,
		Results:      append([]model.Movie{}, p.results...),
	}
}
