package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/user/moovie-discover/internal/logging"
	"github.com/user/moovie-discover/internal/metrics"
	"github.com/user/moovie-discover/internal/model"
	"github.com/user/moovie-discover/internal/utils"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

var errEmptyMovie = errors.New("empty movie payload")

// Catalog 远程电影目录。任何失败都映射为空结果，不向调用方返回错误
type Catalog interface {
	FetchList(ctx context.Context, endpoint string, params Params) model.PagedResult
	FetchByID(ctx context.Context, id int) (*model.Movie, bool)
	Search(ctx context.Context, query string) []model.Movie
}

// TMDBOptions TMDB 客户端配置
type TMDBOptions struct {
	BaseURL    string
	Token      string
	Language   string
	HTTPClient *http.Client

	Limiter     *rate.Limiter                      // nil 表示不限速
	SearchCache *utils.SearchCache[[]model.Movie] // nil 表示不缓存
	DetailCache *utils.TTLCache[*model.Movie]     // nil 表示不缓存
}

// TMDBService TMDB 目录客户端
type TMDBService struct {
	client      *utils.HTTPClient
	defaults    Params
	limiter     *rate.Limiter
	searchCache *utils.SearchCache[[]model.Movie]
	detailCache *utils.TTLCache[*model.Movie]
	group       singleflight.Group
}

func NewTMDBService(opts TMDBOptions) (*TMDBService, error) {
	if opts.Language == "" {
		opts.Language = "en-AU"
	}
	client, err := utils.NewHTTPClient(opts.BaseURL, opts.Token, opts.HTTPClient)
	if err != nil {
		return nil, err
	}
	return &TMDBService{
		client:      client,
		defaults:    DefaultParams(opts.Language),
		limiter:     opts.Limiter,
		searchCache: opts.SearchCache,
		detailCache: opts.DetailCache,
	}, nil
}

// FetchList 获取分页列表，失败时返回 {0,0,0,[]}
func (s *TMDBService) FetchList(ctx context.Context, endpoint string, params Params) model.PagedResult {
	var result model.PagedResult
	if err := s.get(ctx, endpoint, endpoint, params, &result); err != nil {
		logging.Warn().Err(err).Str("endpoint", endpoint).Interface("params", params).Msg("[TMDB] 获取列表失败，返回空结果")
		return model.EmptyPagedResult()
	}
	if result.Results == nil {
		result.Results = []model.Movie{}
	}
	return result
}

// FetchByID 获取电影详情（含 credits），失败或不存在时返回 nil, false
func (s *TMDBService) FetchByID(ctx context.Context, id int) (*model.Movie, bool) {
	if id <= 0 {
		return nil, false
	}
	key := strconv.Itoa(id)

	if s.detailCache != nil {
		if movie, ok := s.detailCache.Get(key); ok {
			metrics.CacheOperations.WithLabelValues("detail", "hit").Inc()
			return movie, true
		}
		metrics.CacheOperations.WithLabelValues("detail", "miss").Inc()
	}

	// 使用 singleflight 合并同一 ID 的并发请求
	val, err, _ := s.group.Do("movie:"+key, func() (interface{}, error) {
		var movie model.Movie
		if err := s.get(ctx, "movie/{id}", "movie/"+key, nil, &movie); err != nil {
			return nil, err
		}
		if movie.ID == 0 {
			return nil, errEmptyMovie
		}
		if s.detailCache != nil {
			s.detailCache.Set(key, &movie)
		}
		return &movie, nil
	})
	if err != nil {
		logging.Warn().Err(err).Int("movie_id", id).Msg("[TMDB] 获取详情失败")
		return nil, false
	}
	return val.(*model.Movie), true
}

// Search 按关键词搜索，空白关键词不发请求
func (s *TMDBService) Search(ctx context.Context, query string) []model.Movie {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Movie{}
	}
	cacheKey := strings.ToLower(query)

	if s.searchCache != nil {
		if movies, ok := s.searchCache.Get(cacheKey); ok {
			metrics.CacheOperations.WithLabelValues("search", "hit").Inc()
			return movies
		}
		metrics.CacheOperations.WithLabelValues("search", "miss").Inc()
	}

	val, err, _ := s.group.Do("search:"+cacheKey, func() (interface{}, error) {
		var result struct {
			Results []model.Movie `json:"results"`
		}
		if err := s.get(ctx, EndpointSearch, EndpointSearch, Params{"query": query}, &result); err != nil {
			return nil, err
		}
		if result.Results == nil {
			result.Results = []model.Movie{}
		}
		if s.searchCache != nil {
			s.searchCache.Set(cacheKey, result.Results)
		}
		return result.Results, nil
	})
	if err != nil {
		logging.Warn().Err(err).Str("query", query).Msg("[TMDB] 搜索失败，返回空结果")
		return []model.Movie{}
	}
	return val.([]model.Movie)
}

// PurgeExpired 清理过期的搜索缓存
func (s *TMDBService) PurgeExpired() int {
	if s.searchCache == nil {
		return 0
	}
	return s.searchCache.PurgeExpired()
}

// get 合并默认参数后发起请求，label 用于指标，避免 ID 进入标签
func (s *TMDBService) get(ctx context.Context, label, path string, params Params, target interface{}) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			metrics.CatalogRequests.WithLabelValues(label, "error").Inc()
			return fmt.Errorf("限速等待失败: %w", err)
		}
	}

	start := time.Now()
	err := s.client.GetJSON(ctx, path, s.defaults.Merge(params).Values(), target)
	metrics.CatalogDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.CatalogRequests.WithLabelValues(label, "error").Inc()
		return err
	}
	metrics.CatalogRequests.WithLabelValues(label, "ok").Inc()
	return nil
}
