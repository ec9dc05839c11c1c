package consts

const (
	PostLikeCountKey = "post:like:"
	PostViewCountKey = "post:view:"
)

const (
	ViewStatsLock = "lock:view:stats"
)
