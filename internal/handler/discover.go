package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/user/moovie-discover/internal/model"
	"github.com/user/moovie-discover/internal/service"
	"github.com/user/moovie-discover/internal/utils"
)

// Discover 发现页当前状态，首次访问按默认条件加载
func (h *Handler) Discover(c *gin.Context) {
	d := h.session(c).Discover
	d.EnsureLoaded(c.Request.Context())
	utils.Success(c, d.State())
}

// DiscoverMore 无限滚动加载下一页
func (h *Handler) DiscoverMore(c *gin.Context) {
	d := h.session(c).Discover
	started := d.LoadMore(c.Request.Context())
	c.Header("X-Load-Started", strconv.FormatBool(started))
	utils.Success(c, d.State())
}

// FilterOptions 可选的类型、评分和年代
func (h *Handler) FilterOptions(c *gin.Context) {
	ratings := make([]int, 0, 10)
	for i := 1; i <= 10; i++ {
		ratings = append(ratings, i)
	}
	utils.Success(c, gin.H{
		"genres":  model.MovieGenres,
		"ratings": ratings,
		"decades": model.Decades,
	})
}

// EditFilters 打开筛选草稿
func (h *Handler) EditFilters(c *gin.Context) {
	d := h.session(c).Discover
	d.Filters().Edit()
	utils.Success(c, d.State())
}

// ToggleGenre 草稿中选中/取消类型
func (h *Handler) ToggleGenre(c *gin.Context) {
	genre := c.Param("genre")
	if !model.IsKnownGenre(genre) {
		utils.BadRequest(c, "unknown genre")
		return
	}
	h.mutateDraft(c, func(f *service.FilterState) error {
		return f.ToggleGenre(genre)
	})
}

// ToggleRating 草稿中设置最低评分
func (h *Handler) ToggleRating(c *gin.Context) {
	rating, err := strconv.Atoi(c.Param("rating"))
	if err != nil || rating < 1 || rating > 10 {
		utils.BadRequest(c, "rating must be between 1 and 10")
		return
	}
	h.mutateDraft(c, func(f *service.FilterState) error {
		return f.ToggleRating(float64(rating))
	})
}

// ToggleDecade 草稿中选择年代预设
func (h *Handler) ToggleDecade(c *gin.Context) {
	decade, ok := model.FindDecade(c.Param("label"))
	if !ok {
		utils.BadRequest(c, "unknown decade")
		return
	}
	h.mutateDraft(c, func(f *service.FilterState) error {
		return f.ToggleDecade(decade.Value)
	})
}

// SetYears 草稿中设置年份区间
func (h *Handler) SetYears(c *gin.Context) {
	var r model.YearRange
	if err := c.ShouldBindJSON(&r); err != nil {
		utils.BadRequest(c, "invalid year range")
		return
	}
	h.mutateDraft(c, func(f *service.FilterState) error {
		return f.SetYearRange(r)
	})
}

// ResetFilters 草稿恢复默认
func (h *Handler) ResetFilters(c *gin.Context) {
	h.mutateDraft(c, func(f *service.FilterState) error {
		return f.Reset()
	})
}

// DiscardFilters 丢弃草稿
func (h *Handler) DiscardFilters(c *gin.Context) {
	d := h.session(c).Discover
	d.Filters().Discard()
	utils.Success(c, d.State())
}

// ApplyFilters 提交草稿，防抖后重新加载列表
func (h *Handler) ApplyFilters(c *gin.Context) {
	d := h.session(c).Discover
	_, err := d.Filters().Commit()
	switch {
	case err == nil:
		utils.SuccessWithMessage(c, "filters applied", d.State())
	case errors.Is(err, service.ErrDraftUnchanged):
		d.Filters().Discard()
		utils.SuccessWithMessage(c, "filters unchanged", d.State())
	default:
		h.filterError(c, err)
	}
}

// ReplaceFilters 一次性提交完整的筛选条件
func (h *Handler) ReplaceFilters(c *gin.Context) {
	var filters model.MovieFilters
	if err := c.ShouldBindJSON(&filters); err != nil {
		utils.BadRequest(c, "invalid filters")
		return
	}
	if filters.Genres == nil {
		filters.Genres = []string{}
	}
	if err := filters.Validate(); err != nil {
		h.filterError(c, err)
		return
	}

	d := h.session(c).Discover
	d.Filters().Edit()
	if err := d.Filters().Replace(filters); err != nil {
		h.filterError(c, err)
		return
	}
	if _, err := d.Filters().Commit(); err != nil {
		h.filterError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "filters applied", d.State())
}

func (h *Handler) mutateDraft(c *gin.Context, fn func(*service.FilterState) error) {
	d := h.session(c).Discover
	if err := fn(d.Filters()); err != nil {
		h.filterError(c, err)
		return
	}
	utils.Success(c, d.State())
}

func (h *Handler) filterError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrNoDraft):
		utils.Conflict(c, err.Error())
	case errors.Is(err, model.ErrInvalidYearRange):
		utils.BadRequest(c, err.Error())
	case errors.As(err, &verrs):
		utils.BadRequest(c, verrs.Error())
	default:
		utils.InternalServerError(c, "")
	}
}
