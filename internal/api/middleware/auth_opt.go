package middleware

import (
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/security"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：解析成功注入 UID，失败或缺失则按游客处理
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint64
		if token, ok := bearerToken(c); ok {
			if claims, err := security.ValidateToken(token); err == nil {
				userID = claims.UserID
			}
		}
		c.Set(consts.CtxUserID, userID)
		c.Next()
	}
}
