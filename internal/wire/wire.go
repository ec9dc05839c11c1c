package wire

import (
	"Atelier/internal/api"
	"Atelier/internal/api/config"
	"Atelier/internal/api/handler"
	"Atelier/internal/job"
	"Atelier/internal/pkg/cron"
	"Atelier/internal/pkg/es"
	"Atelier/internal/pkg/kafka"
	"Atelier/internal/pkg/mongo"
	"Atelier/internal/repository"
	"Atelier/internal/service"
	log "log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	CronMgr *cron.Manager

	// 未配置 kafka.brokers 时为 nil，点赞通知与帖子同步关闭
	KafkaManager *kafka.ConsumerManager
	Notifier     *kafka.LikeNotifier
}

func BuildApplication(db *gorm.DB, mongoDB *mongodrv.Database, esClient *elasticsearch.TypedClient, cfg *config.Config) (*ApplicationContainer, error) {
	app := &ApplicationContainer{DB: db}

	postRepo := repository.NewPostRepo(db)
	tagRepo := repository.NewTagRepo(db)
	likeRepo := repository.NewPostLikeRepo(db)
	viewRepo := repository.NewPostViewRepo(db)
	sysBoxRepo := mongo.NewSysBoxRepo(mongoDB)
	postESRepo := es.NewPostRepo(esClient)

	engagementCfg := cfg.Engagement
	counterService := service.NewCounterService(likeRepo, viewRepo, time.Duration(engagementCfg.CounterCacheTTLSeconds)*time.Second)

	var notifier service.LikeNotifier
	if len(cfg.Kafka.Brokers) > 0 {
		likeNotifier, err := kafka.NewLikeNotifier(cfg)
		if err != nil {
			return nil, err
		}
		kafkaMgr, err := kafka.NewConsumerManager(cfg, sysBoxRepo, postRepo, tagRepo, postESRepo, counterService)
		if err != nil {
			_ = likeNotifier.Close()
			return nil, err
		}
		notifier = likeNotifier
		app.Notifier, app.KafkaManager = likeNotifier, kafkaMgr
	} else {
		log.Warn("kafka brokers not configured, like notifications and post sync disabled")
	}

	viewService := service.NewPostViewService(viewRepo,
		time.Duration(engagementCfg.DedupWindowMinutes)*time.Minute,
		service.ParseMatchPolicy(engagementCfg.MatchPolicy),
	)
	likeService := service.NewPostLikeService(likeRepo, postRepo, notifier)
	rankingService := service.NewRankingService(postRepo, counterService)
	searchService := service.NewSearchService(postRepo, tagRepo, postESRepo)
	sysBoxService := service.NewSysBoxService(sysBoxRepo)

	handlers := &api.HandlersGroup{
		EngagementHandler: handler.NewEngagementHandler(viewService, likeService, counterService),
		RankingHandler:    handler.NewRankingHandler(rankingService, cfg.Ranking),
		SearchHandler:     handler.NewSearchHandler(searchService),
		SysBoxHandler:     handler.NewSysBoxHandler(sysBoxService),
	}
	app.Router = api.SetupRouter(handlers, cfg)
	app.CronMgr = cron.NewCronManager(engagementCfg.ViewStatsCron, job.NewViewStatsJob(counterService))

	return app, nil
}
