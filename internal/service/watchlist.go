package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/user/moovie-discover/internal/logging"
	"github.com/user/moovie-discover/internal/metrics"
	"github.com/user/moovie-discover/internal/model"
	"github.com/user/moovie-discover/internal/repository"
	"golang.org/x/sync/errgroup"
)

// WatchlistKey 片单在存储中的键
const WatchlistKey = "movieIds"

// Watchlist 片单：只持久化电影 ID，完整信息按需从目录拉取
type Watchlist struct {
	store   repository.KeyValueStore
	catalog Catalog
	key     string
	mu      sync.Mutex
}

// NewWatchlist key 为空时使用 WatchlistKey
func NewWatchlist(store repository.KeyValueStore, catalog Catalog, key string) *Watchlist {
	if key == "" {
		key = WatchlistKey
	}
	return &Watchlist{store: store, catalog: catalog, key: key}
}

// ListIDs 读取已保存的 ID（按添加顺序），未保存过时为空
func (w *Watchlist) ListIDs(ctx context.Context) ([]int, error) {
	raw, err := w.store.Get(ctx, w.key)
	if errors.Is(err, repository.ErrNotFound) {
		return []int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取片单失败: %w", err)
	}

	ids := []int{}
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("解析片单失败: %w", err)
	}
	return ids, nil
}

// Add 追加 ID，不去重
func (w *Watchlist) Add(ctx context.Context, id int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids, err := w.ListIDs(ctx)
	if err != nil {
		metrics.WatchlistOperations.WithLabelValues("add", "error").Inc()
		return err
	}
	if err := w.save(ctx, append(ids, id)); err != nil {
		metrics.WatchlistOperations.WithLabelValues("add", "error").Inc()
		return err
	}
	metrics.WatchlistOperations.WithLabelValues("add", "ok").Inc()
	return nil
}

// Remove 移除该 ID 的所有出现
func (w *Watchlist) Remove(ctx context.Context, id int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids, err := w.ListIDs(ctx)
	if err != nil {
		metrics.WatchlistOperations.WithLabelValues("remove", "error").Inc()
		return err
	}
	kept := make([]int, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	if err := w.save(ctx, kept); err != nil {
		metrics.WatchlistOperations.WithLabelValues("remove", "error").Inc()
		return err
	}
	metrics.WatchlistOperations.WithLabelValues("remove", "ok").Inc()
	return nil
}

// Resolve 并发拉取所有 ID 的详情，保持保存顺序，跳过已不存在的电影
func (w *Watchlist) Resolve(ctx context.Context) ([]model.Movie, error) {
	ids, err := w.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	resolved := make([]*model.Movie, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			if movie, ok := w.catalog.FetchByID(gctx, id); ok {
				resolved[i] = movie
			}
			return nil
		})
	}
	_ = g.Wait()

	movies := make([]model.Movie, 0, len(ids))
	for i, m := range resolved {
		if m == nil {
			logging.Debug().Int("movie_id", ids[i]).Msg("[Watchlist] 电影不存在或拉取失败，已跳过")
			continue
		}
		movies = append(movies, *m)
	}
	metrics.WatchlistOperations.WithLabelValues("resolve", "ok").Inc()
	return movies, nil
}

func (w *Watchlist) save(ctx context.Context, ids []int) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if err := w.store.Put(ctx, w.key, raw); err != nil {
		return fmt.Errorf("写入片单失败: %w", err)
	}
	return nil
}
