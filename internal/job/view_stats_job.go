package job

import (
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/logger"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/service"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

const viewStatsLockTTL = 2 * time.Minute

// ViewStatsJob 定时重算 post_view_stats，多实例部署时靠 Redis 锁保证只有一个在跑
type ViewStatsJob struct {
	counterSvc service.CounterService
}

func NewViewStatsJob(counterSvc service.CounterService) *ViewStatsJob {
	return &ViewStatsJob{
		counterSvc: counterSvc,
	}
}

func (s *ViewStatsJob) Run() {
	ctx := logger.NewJobContext(context.Background(), "job-view-stats")

	token := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.ViewStatsLock, token, viewStatsLockTTL, 1)
	switch {
	case errors.Is(err, redis.ErrClientNotReady):
		log.WarnContext(ctx, "redis not ready, refresh view stats without lock")
	case err != nil:
		log.ErrorContext(ctx, "acquire view stats lock error", "err", err)
		return
	case !locked:
		log.InfoContext(ctx, "view stats refresh is running elsewhere, skip")
		return
	default:
		defer redis.UnLock(ctx, consts.ViewStatsLock, token)
	}

	start := time.Now()
	rows, err := s.counterSvc.RefreshViewStats(ctx)
	if err != nil {
		log.ErrorContext(ctx, "refresh view stats error", "err", err)
		return
	}
	log.InfoContext(ctx, "refresh view stats success", "rows", rows, "cost", time.Since(start))
}
