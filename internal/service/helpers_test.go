package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/moovie-discover/internal/model"
)

// fakeCatalog 记录调用的目录桩
type fakeCatalog struct {
	mu      sync.Mutex
	list    func(endpoint string, params Params) model.PagedResult
	byID    func(ctx context.Context, id int) (*model.Movie, bool)
	calls   []Params
	lookups []int
}

func (f *fakeCatalog) FetchList(_ context.Context, endpoint string, params Params) model.PagedResult {
	f.mu.Lock()
	f.calls = append(f.calls, params.Merge(Params{"endpoint": endpoint}))
	f.mu.Unlock()
	if f.list == nil {
		return model.EmptyPagedResult()
	}
	return f.list(endpoint, params)
}

func (f *fakeCatalog) FetchByID(ctx context.Context, id int) (*model.Movie, bool) {
	f.mu.Lock()
	f.lookups = append(f.lookups, id)
	f.mu.Unlock()
	if f.byID == nil {
		return &model.Movie{ID: id, Title: fmt.Sprintf("Movie %d", id)}, true
	}
	return f.byID(ctx, id)
}

func (f *fakeCatalog) Search(context.Context, string) []model.Movie {
	return []model.Movie{}
}

func (f *fakeCatalog) Calls() []Params {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Params{}, f.calls...)
}

// pageOf 生成第 page 页的 20 部电影，ID 从 (page-1)*20+1 开始
func pageOf(page, totalPages int) model.PagedResult {
	movies := make([]model.Movie, 0, 20)
	for i := 1; i <= 20; i++ {
		id := (page-1)*20 + i
		movies = append(movies, model.Movie{ID: id, Title: fmt.Sprintf("Movie %d", id)})
	}
	return model.PagedResult{
		Page:         page,
		TotalPages:   totalPages,
		TotalResults: totalPages * 20,
		Results:      movies,
	}
}
