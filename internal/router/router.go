package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/moovie-discover/internal/handler"
	"github.com/user/moovie-discover/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.Visitor())
	{
		// ==================== 首页 ====================
		api.GET("/home", h.Home)
		api.POST("/home/carousels/:index/more", h.CarouselMore)

		// ==================== 电影 ====================
		api.GET("/movies/:id", h.Movie)
		api.GET("/search", h.Search)

		// ==================== 发现页 ====================
		discover := api.Group("/discover")
		{
			discover.GET("", h.Discover)
			discover.POST("/more", h.DiscoverMore)

			filters := discover.Group("/filters")
			filters.GET("/options", h.FilterOptions)
			filters.PUT("", h.ReplaceFilters)
			filters.POST("/edit", h.EditFilters)
			filters.POST("/apply", h.ApplyFilters)
			filters.POST("/discard", h.DiscardFilters)
			filters.POST("/reset", h.ResetFilters)
			filters.POST("/genres/:genre", h.ToggleGenre)
			filters.POST("/rating/:rating", h.ToggleRating)
			filters.POST("/decades/:label", h.ToggleDecade)
			filters.PUT("/years", h.SetYears)
		}

		// ==================== 片单 ====================
		api.GET("/watchlist", h.Watchlist)
		api.GET("/watchlist/ids", h.WatchlistIDs)
		api.POST("/watchlist/:id", h.AddToWatchlist)
		api.DELETE("/watchlist/:id", h.RemoveFromWatchlist)
	}
}
