package response

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/service"
	"errors"
	log "log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

// Success 成功返回封装
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.Response{
		Code:    Ok,
		Message: "success",
		Data:    data,
	})
}

// Fail 失败返回封装
func Fail(c *gin.Context, businessCode int, message string) {
	FailWithData(c, businessCode, message, nil)
}

// FailWithData 失败时仍带回兜底数据，前端可以照常渲染
func FailWithData(c *gin.Context, businessCode int, message string, data interface{}) {
	c.JSON(http.StatusOK, dto.Response{
		Code:    businessCode,
		Message: message,
		Data:    data,
	})
}

// Error 处理错误
func Error(c *gin.Context, err error) {
	ErrorWithData(c, err, nil)
}

// ErrorWithData 业务码取自 service.ErrorMap，5xx 只返回哨兵错误的文案
func ErrorWithData(c *gin.Context, err error, data interface{}) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		FailWithData(c, BadRequest, "参数错误", data)
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		FailWithData(c, BadRequest, "Json错误", data)
		return
	}

	code, ok := service.ErrorCode(err)
	if !ok {
		log.ErrorContext(c.Request.Context(), "unhandled error", "path", c.FullPath(), "err", err)
		FailWithData(c, InternalServerError, service.UnExpectedError.Error(), data)
		return
	}
	msg := err.Error()
	if code >= InternalServerError {
		log.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "err", err)
		msg, _, _ = strings.Cut(msg, ": ")
	}
	FailWithData(c, code, msg, data)
}
