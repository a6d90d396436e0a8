package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/user/moovie-discover/internal/logging"
)

const (
	visitorSessionKey = "visitor_id"
	visitorContextKey = "visitor_id"
)

// Visitor 为每个浏览器分配匿名访客 ID 并保存在 Session Cookie 中
func Visitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		id, _ := session.Get(visitorSessionKey).(string)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			session.Set(visitorSessionKey, id)
			if err := session.Save(); err != nil {
				logging.Warn().Err(err).Msg("[Visitor] 保存访客 Session 失败")
			}
		}

		c.Set(visitorContextKey, id)
		c.Next()
	}
}

// GetVisitorID 从上下文获取访客 ID，未经过 Visitor 中间件时为空
func GetVisitorID(c *gin.Context) string {
	if id, ok := c.Get(visitorContextKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
