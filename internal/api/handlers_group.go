package api

import "Atelier/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	EngagementHandler *handler.EngagementHandler
	RankingHandler    *handler.RankingHandler
	SearchHandler     *handler.SearchHandler
	SysBoxHandler     *handler.SysBoxHandler
}
