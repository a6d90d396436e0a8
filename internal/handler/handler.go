package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/moovie-discover/internal/config"
	"github.com/user/moovie-discover/internal/middleware"
	"github.com/user/moovie-discover/internal/service"
)

// Handler HTTP 处理器
type Handler struct {
	Config   *config.Config
	Catalog  service.Catalog
	Sessions *service.SessionManager
}

// NewHandler 创建处理器
func NewHandler(cfg *config.Config, catalog service.Catalog, sessions *service.SessionManager) *Handler {
	return &Handler{
		Config:   cfg,
		Catalog:  catalog,
		Sessions: sessions,
	}
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.Sessions.Len()})
}

// session 当前访客的浏览会话
func (h *Handler) session(c *gin.Context) *service.BrowseSession {
	visitor := middleware.GetVisitorID(c)
	if visitor == "" {
		visitor = "anonymous"
	}
	return h.Sessions.Get(visitor)
}

// paramID 解析路径中的正整数 ID
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
