package handler

import (
	"Atelier/internal/pkg/util"

	"github.com/gin-gonic/gin"
)

// postIDParam 解析路径中的 post_id，0 视为非法
func postIDParam(c *gin.Context) (uint64, bool) {
	return util.ParseUint64(c.Param("post_id"))
}
