package service

import (
	"context"
	"sync"
	"time"

	"github.com/user/moovie-discover/internal/logging"
	"github.com/user/moovie-discover/internal/model"
)

// NoResultsMessage 列表为空时展示的提示（失败和零结果一样处理）
const NoResultsMessage = "No movies found. Try some other filters"

// discover 页首次加载连续拉取的页数
const discoverPrefetchPages = 2

// DiscoverState 发现页快照
type DiscoverState struct {
	Filters    model.MovieFilters  `json:"filters"`
	Phase      string              `json:"phase"`
	Draft      *model.MovieFilters `json:"draft,omitempty"`
	DraftDirty bool                `json:"draft_dirty"`
	Pending    bool                `json:"pending"`
	List       PageState           `json:"list"`
	Message    string              `json:"message,omitempty"`
}

// Discover 发现页：筛选提交 -> 防抖 -> 从第 1 页重新加载
type Discover struct {
	ctx       context.Context
	catalog   Catalog
	filters   *FilterState
	list      *Paginator
	debouncer *Debouncer[model.MovieFilters]
	initOnce  sync.Once
}

// NewDiscover ctx 为会话级上下文，防抖触发的重新加载使用它
func NewDiscover(ctx context.Context, catalog Catalog, debounce time.Duration) *Discover {
	d := &Discover{ctx: ctx, catalog: catalog}
	d.list = NewPaginator(d.fetcher(model.DefaultMovieFilters()), discoverPrefetchPages)
	d.debouncer = NewDebouncer(debounce, d.apply)
	d.filters = NewFilterState(d.debouncer.Push)
	return d
}

// Filters 筛选状态
func (d *Discover) Filters() *FilterState {
	return d.filters
}

// EnsureLoaded 首次访问时按默认条件加载
func (d *Discover) EnsureLoaded(ctx context.Context) {
	d.initOnce.Do(func() {
		d.list.Load(ctx)
	})
}

// LoadMore 加载下一页
func (d *Discover) LoadMore(ctx context.Context) bool {
	d.EnsureLoaded(ctx)
	return d.list.LoadMore(ctx)
}

// State 当前快照
func (d *Discover) State() DiscoverState {
	state := DiscoverState{
		Filters: d.filters.Committed(),
		Phase:   d.filters.Phase().String(),
		Pending: d.debouncer.Pending(),
		List:    d.list.Snapshot(),
	}
	if draft, dirty, ok := d.filters.Draft(); ok {
		state.Draft = &draft
		state.DraftDirty = dirty
	}
	if state.List.Status == StatusLoaded && len(state.List.Results) == 0 {
		state.Message = NoResultsMessage
	}
	return state
}

// Close 停止防抖计时
func (d *Discover) Close() {
	d.debouncer.Stop()
}

func (d *Discover) apply(filters model.MovieFilters) {
	logging.Debug().Interface("filters", filters).Msg("[Discover] 筛选条件生效，重新加载")
	// 已有生效的筛选条件，跳过默认加载
	d.initOnce.Do(func() {})
	d.list.Reset(d.ctx, d.fetcher(filters))
}

func (d *Discover) fetcher(filters model.MovieFilters) PageFetcher {
	return func(ctx context.Context, page int) model.PagedResult {
		return d.catalog.FetchList(ctx, EndpointDiscover, DiscoverParams(filters, page))
	}
}
