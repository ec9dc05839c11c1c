package consts

const (
	PostNotDeleted = false
)

const (
	HeaderTraceID   = "X-Trace-ID"
	HeaderUserAgent = "User-Agent"
)

// 通知类型
const (
	NotifyTypeLike = 1
)

// 帖子变更事件类型
const (
	PostEventUpsert = "upsert"
	PostEventDelete = "delete"
)

// gin.Context 中的键
const (
	CtxUserID = "user_id"
)
