package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/user/moovie-discover/internal/model"
	"golang.org/x/sync/errgroup"
)

var ErrCarouselNotFound = errors.New("carousel not found")

// Carousel 首页横向轮播
type Carousel struct {
	Title    string
	Endpoint string
	Year     int
	list     *Paginator
}

// CarouselState 轮播快照
type CarouselState struct {
	Index    int    `json:"index"`
	Title    string `json:"title"`
	Endpoint string `json:"endpoint"`
	Year     int    `json:"year,omitempty"`
	PageState
}

// HomeState 首页快照
type HomeState struct {
	Banner    []model.Movie   `json:"banner"`
	Carousels []CarouselState `json:"carousels"`
}

// Home 首页：横幅 + 多个可无限滚动的轮播
type Home struct {
	carousels []*Carousel
	once      sync.Once
}

// RandomBaseYear 1970~2009 之间的随机年份
func RandomBaseYear(r *rand.Rand) int {
	if r == nil {
		return 1970 + rand.IntN(40)
	}
	return 1970 + r.IntN(40)
}

// NewHome baseYear 两侧各取 ±5、±10 年生成 "Best of" 轮播
func NewHome(catalog Catalog, baseYear int) *Home {
	carousels := []*Carousel{
		newCarousel(catalog, "Popular Now", EndpointTrending, 0),
		newCarousel(catalog, "All Time Classics", EndpointTopRated, 0),
	}
	for _, year := range []int{baseYear - 10, baseYear - 5, baseYear, baseYear + 5, baseYear + 10} {
		carousels = append(carousels, newCarousel(catalog, fmt.Sprintf("Best of %d", year), EndpointDiscover, year))
	}
	return &Home{carousels: carousels}
}

func newCarousel(catalog Catalog, title, endpoint string, year int) *Carousel {
	fetch := func(ctx context.Context, page int) model.PagedResult {
		if year != 0 {
			return catalog.FetchList(ctx, endpoint, YearParams(year, page))
		}
		return catalog.FetchList(ctx, endpoint, PageParams(page))
	}
	return &Carousel{
		Title:    title,
		Endpoint: endpoint,
		Year:     year,
		list:     NewPaginator(fetch, 1),
	}
}

// EnsureLoaded 并发加载所有轮播的第 1 页（只执行一次）
func (h *Home) EnsureLoaded(ctx context.Context) {
	h.once.Do(func() {
		var g errgroup.Group
		for _, c := range h.carousels {
			g.Go(func() error {
				c.list.Load(ctx)
				return nil
			})
		}
		_ = g.Wait()
	})
}

// LoadMore 滚动到末尾时加载指定轮播的下一页
func (h *Home) LoadMore(ctx context.Context, index int) (CarouselState, bool, error) {
	if index < 0 || index >= len(h.carousels) {
		return CarouselState{}, false, ErrCarouselNotFound
	}
	h.EnsureLoaded(ctx)
	started := h.carousels[index].list.LoadMore(ctx)
	return h.carouselState(index), started, nil
}

// State 首页快照，横幅取第一个轮播的结果
func (h *Home) State() HomeState {
	state := HomeState{Banner: []model.Movie{}, Carousels: make([]CarouselState, 0, len(h.carousels))}
	for i := range h.carousels {
		state.Carousels = append(state.Carousels, h.carouselState(i))
	}
	if len(state.Carousels) > 0 {
		state.Banner = state.Carousels[0].Results
	}
	return state
}

func (h *Home) carouselState(index int) CarouselState {
	c := h.carousels[index]
	return CarouselState{
		Index:     index,
		Title:     c.Title,
		Endpoint:  c.Endpoint,
		Year:      c.Year,
		PageState: c.list.Snapshot(),
	}
}
