package cron

import (
	"Atelier/internal/job"
	"fmt"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine        *cron.Cron
	viewStatsSpec string
	viewStatsJob  *job.ViewStatsJob
}

// NewCronManager viewStatsSpec 支持六段式表达式或 @every 描述符
func NewCronManager(viewStatsSpec string, viewStatsJob *job.ViewStatsJob) *Manager {
	return &Manager{
		engine:        cron.New(cron.WithSeconds()),
		viewStatsSpec: viewStatsSpec,
		viewStatsJob:  viewStatsJob,
	}
}

// RegisterJobs 注册定时任务，上一轮未结束时跳过本轮
func (s *Manager) RegisterJobs() error {
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(s.viewStatsJob)
	if _, err := s.engine.AddJob(s.viewStatsSpec, wrapped); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动", "view_stats", s.viewStatsSpec)
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}

// InitCron 注册全部任务后启动引擎
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return fmt.Errorf("register cron jobs: %w", err)
	}
	mgr.Start()
	return nil
}
