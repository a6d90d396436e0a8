package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-discover/internal/service"
	"github.com/user/moovie-discover/internal/utils"
)

// Home 首页横幅和轮播
func (h *Handler) Home(c *gin.Context) {
	home := h.session(c).Home
	home.EnsureLoaded(c.Request.Context())
	utils.Success(c, home.State())
}

// CarouselMore 轮播滚动到末尾时加载下一页
func (h *Handler) CarouselMore(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.BadRequest(c, "invalid carousel index")
		return
	}
	state, started, err := h.session(c).Home.LoadMore(c.Request.Context(), index)
	if errors.Is(err, service.ErrCarouselNotFound) {
		utils.NotFound(c, "carousel not found")
		return
	}
	c.Header("X-Load-Started", strconv.FormatBool(started))
	utils.Success(c, state)
}
