package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid    = errors.New("参数错误")
	ErrPostNotFound    = errors.New("帖子不存在")
	ErrCategoryInvalid = errors.New("分区不存在")
	ErrPostIDsTooMany  = errors.New("帖子数量超过限制")
	ErrViewNotRecorded = errors.New("浏览记录失败")
	ErrCounterFetch    = errors.New("计数获取失败")
	ErrRankingFetch    = errors.New("榜单获取失败")
	ErrSysBoxNotFound  = errors.New("系统通知不存在")
	UnauthorizedError  = errors.New("权限不足")
	UnExpectedError    = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:    BadRequest,
	ErrPostNotFound:    NotFound,
	ErrCategoryInvalid: BadRequest,
	ErrPostIDsTooMany:  BadRequest,
	ErrViewNotRecorded: InternalServerError,
	ErrCounterFetch:    InternalServerError,
	ErrRankingFetch:    InternalServerError,
	ErrSysBoxNotFound:  NotFound,
	UnauthorizedError:  Unauthorized,
	UnExpectedError:    InternalServerError,
}

// ErrorCode 按 errors.Is 查找业务码，包装过的哨兵错误同样命中
func ErrorCode(err error) (int, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for sentinel, code := range ErrorMap {
		if errors.Is(err, sentinel) {
			return code, true
		}
	}
	return 0, false
}
