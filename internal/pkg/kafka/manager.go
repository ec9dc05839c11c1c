package kafka

import (
	"Atelier/internal/api/config"
	"Atelier/internal/pkg/es"
	"Atelier/internal/pkg/mongo"
	"Atelier/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	notificationTopic    string
	notificationConsumer sarama.ConsumerGroup
	notificationHandler  sarama.ConsumerGroupHandler

	postSyncTopic    string
	postSyncConsumer sarama.ConsumerGroup
	postSyncHandler  sarama.ConsumerGroupHandler
}

func NewConsumerManager(
	cfg *config.Config,
	sysBoxRepo mongo.SysBoxRepo,
	postDBRepo repository.PostRepo,
	tagDBRepo repository.TagRepo,
	postESRepo es.PostRepo,
	counters CounterEvicter,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	notificationConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Notification.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	// 帖子事件不能丢，新消费组从最早的 offset 开始
	postSyncCfg := newSaramaConfig(cfg.Kafka)
	postSyncCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	postSyncConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.PostSync.GroupID, postSyncCfg)
	if err != nil {
		_ = notificationConsumer.Close()
		return nil, err
	}

	return &ConsumerManager{
		notificationTopic:    cfg.Notification.Topic,
		notificationConsumer: notificationConsumer,
		notificationHandler:  NewNotificationHandler(sysBoxRepo),
		postSyncTopic:        cfg.PostSync.Topic,
		postSyncConsumer:     postSyncConsumer,
		postSyncHandler:      NewPostSyncHandler(postDBRepo, tagDBRepo, postESRepo, counters),
	}, nil
}

// Start 启动所有消费者，阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go consumeLoop(ctx, "Notification", m.notificationConsumer, m.notificationTopic, m.notificationHandler)
	go consumeLoop(ctx, "Post sync", m.postSyncConsumer, m.postSyncTopic, m.postSyncHandler)

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.notificationConsumer.Close(); err != nil {
		log.Error("Failed to close notification consumer", "err", err)
	}
	if err := m.postSyncConsumer.Close(); err != nil {
		log.Error("Failed to close post sync consumer", "err", err)
	}
	return nil
}

// consumeLoop rebalance 后 Consume 会返回，需要循环重新加入
func consumeLoop(ctx context.Context, name string, group sarama.ConsumerGroup, topic string, handler sarama.ConsumerGroupHandler) {
	go func() {
		for err := range group.Errors() {
			log.Error(name+" consumer error", "err", err)
		}
	}()

	log.Info(name+" consumer started", "topic", topic)
	for {
		if err := group.Consume(ctx, []string{topic}, handler); err != nil {
			log.Error("Error from consumer", "consumer", name, "err", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}
