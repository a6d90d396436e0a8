package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moovie-discover/internal/model"
	"github.com/user/moovie-discover/internal/utils"
)

type fakeTMDB struct {
	*httptest.Server
	hits    atomic.Int32
	mu      sync.Mutex
	queries []url.Values
	paths   []string
}

func (f *fakeTMDB) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return nil
	}
	return f.queries[len(f.queries)-1]
}

func newFakeTMDB(t *testing.T, handler http.HandlerFunc) *fakeTMDB {
	t.Helper()
	f := &fakeTMDB{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		f.mu.Lock()
		f.queries = append(f.queries, r.URL.Query())
		f.paths = append(f.paths, r.URL.Path)
		f.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func newTestTMDB(t *testing.T, srv *fakeTMDB) *TMDBService {
	t.Helper()
	svc, err := NewTMDBService(TMDBOptions{
		BaseURL:     srv.URL + "/3/",
		Token:       "token",
		SearchCache: utils.NewSearchCache[[]model.Movie](10, time.Minute),
		DetailCache: utils.NewTTLCache[*model.Movie](time.Minute, time.Minute),
	})
	require.NoError(t, err)
	return svc
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestTMDBFetchList(t *testing.T) {
	srv := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, pageOf(2, 5))
	})
	svc := newTestTMDB(t, srv)

	res := svc.FetchList(context.Background(), EndpointPopular, PageParams(2))
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 5, res.TotalPages)
	assert.Len(t, res.Results, 20)

	q := srv.lastQuery()
	assert.Equal(t, "en-AU", q.Get("language"))
	assert.Equal(t, "revenue.desc", q.Get("sort_by"))
	assert.Equal(t, "credits", q.Get("append_to_response"))
	assert.Equal(t, "1000", q.Get("vote_count.gte"))
	assert.Equal(t, "false", q.Get("include_adult"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "/3/movie/popular", srv.paths[0])

	t.Run("caller params override defaults", func(t *testing.T) {
		svc.FetchList(context.Background(), EndpointPopular, Params{"sort_by": "popularity.desc", "page": "1"})
		assert.Equal(t, "popularity.desc", srv.lastQuery().Get("sort_by"))
	})
}

func TestTMDBFetchListFailureIsEmpty(t *testing.T) {
	srv := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	svc := newTestTMDB(t, srv)

	res := svc.FetchList(context.Background(), EndpointTopRated, PageParams(1))
	assert.Equal(t, model.PagedResult{Results: []model.Movie{}}, res)
}

func TestTMDBDiscoverQuery(t *testing.T) {
	srv := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.PagedResult{Page: 1, TotalPages: 1, Results: []model.Movie{}})
	})
	svc := newTestTMDB(t, srv)

	filters := model.MovieFilters{
		Genres:      []string{"28"},
		UserRating:  7,
		ReleaseYear: model.YearRange{Min: 1990, Max: 1999},
	}
	svc.FetchList(context.Background(), EndpointDiscover, DiscoverParams(filters, 1))

	q := srv.lastQuery()
	assert.Equal(t, "28", q.Get("with_genres"))
	assert.Equal(t, "7", q.Get("vote_average.gte"))
	assert.Equal(t, "1990-01-01", q.Get("primary_release_date.gte"))
	assert.Equal(t, "1999-12-31", q.Get("primary_release_date.lte"))

	t.Run("zero year range omits dates", func(t *testing.T) {
		svc.FetchList(context.Background(), EndpointDiscover, DiscoverParams(model.DefaultMovieFilters(), 1))
		q := srv.lastQuery()
		assert.False(t, q.Has("primary_release_date.gte"))
		assert.False(t, q.Has("primary_release_date.lte"))
		assert.False(t, q.Has("with_genres"))
		assert.Equal(t, "0", q.Get("vote_average.gte"))
	})
}

func TestTMDBFetchByID(t *testing.T) {
	srv := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/movie/603" {
			http.Error(w, `{"status_code":34}`, http.StatusNotFound)
			return
		}
		writeJSON(w, model.Movie{
			ID:    603,
			Title: "The Matrix",
			Credits: &model.Credits{
				Cast: []model.CastMember{{Name: "Keanu Reeves"}},
			},
		})
	})
	svc := newTestTMDB(t, srv)

	movie, ok := svc.FetchByID(context.Background(), 603)
	require.True(t, ok)
	assert.Equal(t, "The Matrix", movie.Title)
	require.NotNil(t, movie.Credits)
	assert.Equal(t, "Keanu Reeves", movie.Credits.Cast[0].Name)
	assert.Equal(t, "credits", srv.lastQuery().Get("append_to_response"))

	// 第二次命中缓存
	_, ok = svc.FetchByID(context.Background(), 603)
	require.True(t, ok)
	assert.EqualValues(t, 1, srv.hits.Load())

	movie, ok = svc.FetchByID(context.Background(), 1)
	assert.False(t, ok)
	assert.Nil(t, movie)

	_, ok = svc.FetchByID(context.Background(), 0)
	assert.False(t, ok)
	assert.EqualValues(t, 2, srv.hits.Load())
}

func TestTMDBSearch(t *testing.T) {
	srv := newFakeTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.PagedResult{Results: []model.Movie{{ID: 1, Title: "Alien"}}})
	})
	svc := newTestTMDB(t, srv)

	assert.Empty(t, svc.Search(context.Background(), "   "))
	assert.EqualValues(t, 0, srv.hits.Load())

	movies := svc.Search(context.Background(), "alien")
	require.Len(t, movies, 1)
	assert.Equal(t, "alien", srv.lastQuery().Get("query"))

	svc.Search(context.Background(), " Alien ")
	assert.EqualValues(t, 1, srv.hits.Load())
}
