package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-discover/internal/logging"
	"github.com/user/moovie-discover/internal/middleware"
	"github.com/user/moovie-discover/internal/model"
	"github.com/user/moovie-discover/internal/service"
	"github.com/user/moovie-discover/internal/utils"
)

// 详情页展示的演员数
const detailCastSize = 5

// MovieDetail 详情页数据
type MovieDetail struct {
	*model.Movie
	Year         int      `json:"year"`
	RuntimeLabel string   `json:"runtime_label"`
	GenreNames   []string `json:"genre_names"`
	TopCast      []string `json:"top_cast"`
	Directors    []string `json:"directors"`
	PosterURL    string   `json:"poster_url"`
	BackdropURL  string   `json:"backdrop_url"`
}

func newMovieDetail(m *model.Movie) MovieDetail {
	return MovieDetail{
		Movie:        m,
		Year:         m.Year(),
		RuntimeLabel: m.RuntimeLabel(),
		GenreNames:   m.GenreNames(),
		TopCast:      m.TopCast(detailCastSize),
		Directors:    m.Directors(),
		PosterURL:    m.PosterURL("w300"),
		BackdropURL:  m.BackdropURL("original"),
	}
}

// Movie 电影详情
func (h *Handler) Movie(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.BadRequest(c, "invalid movie id")
		return
	}
	movie, ok := h.Catalog.FetchByID(c.Request.Context(), id)
	if !ok {
		utils.NotFound(c, "movie not found")
		return
	}
	utils.Success(c, newMovieDetail(movie))
}

// Search 关键词搜索
func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	movies := h.Catalog.Search(c.Request.Context(), query)
	utils.Success(c, gin.H{"query": query, "results": movies})
}

// Watchlist 片单（解析为完整电影信息）
func (h *Handler) Watchlist(c *gin.Context) {
	movies, err := h.session(c).Watchlist.Resolve(c.Request.Context())
	if err != nil {
		logging.Error().Err(err).Str("visitor", middleware.GetVisitorID(c)).Msg("[Watchlist] 读取片单失败")
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, movies)
}

// WatchlistIDs 片单中的 ID
func (h *Handler) WatchlistIDs(c *gin.Context) {
	ids, err := h.session(c).Watchlist.ListIDs(c.Request.Context())
	if err != nil {
		logging.Error().Err(err).Str("visitor", middleware.GetVisitorID(c)).Msg("[Watchlist] 读取片单失败")
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, ids)
}

// AddToWatchlist 加入片单
func (h *Handler) AddToWatchlist(c *gin.Context) {
	h.mutateWatchlist(c, "added to watchlist", (*service.Watchlist).Add)
}

// RemoveFromWatchlist 移出片单
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	h.mutateWatchlist(c, "removed from watchlist", (*service.Watchlist).Remove)
}

func (h *Handler) mutateWatchlist(c *gin.Context, message string, op func(*service.Watchlist, context.Context, int) error) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.BadRequest(c, "invalid movie id")
		return
	}
	w := h.session(c).Watchlist
	if err := op(w, c.Request.Context(), id); err != nil {
		logging.Error().Err(err).Int("movie_id", id).Str("visitor", middleware.GetVisitorID(c)).Msg("[Watchlist] 更新片单失败")
		utils.InternalServerError(c, "")
		return
	}
	ids, err := w.ListIDs(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.SuccessWithMessage(c, message, ids)
}
