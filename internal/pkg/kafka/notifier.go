package kafka

import (
	"Atelier/internal/api/config"
	"Atelier/internal/api/dto"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"sync"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// ErrProducerBusy 发送缓冲已满，调用方不会被阻塞
var ErrProducerBusy = errors.New("kafka producer input is full")

// ErrNotifierClosed Close 之后不再接收新的通知
var ErrNotifierClosed = errors.New("like notifier is closed")

// LikeNotifier 把点赞通知异步写入 Kafka
type LikeNotifier struct {
	producer sarama.AsyncProducer
	topic    string
	wg       sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewLikeNotifier(cfg *config.Config) (*LikeNotifier, error) {
	producer, err := sarama.NewAsyncProducer(cfg.Kafka.Brokers, newSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, err
	}
	return newLikeNotifier(producer, cfg.Notification.Topic), nil
}

func newLikeNotifier(producer sarama.AsyncProducer, topic string) *LikeNotifier {
	n := &LikeNotifier{
		producer: producer,
		topic:    topic,
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for pErr := range producer.Errors() {
			log.Error("like notification produce failed", "topic", pErr.Msg.Topic, "err", pErr.Err)
		}
	}()
	return n
}

// NotifyLike 以作者 ID 为 key 投递，保证同一作者的通知有序
func (n *LikeNotifier) NotifyLike(ctx context.Context, msg *dto.LikeNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	pm := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(msg.AuthorID, 10)),
		Value: sarama.ByteEncoder(body),
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return ErrNotifierClosed
	}
	select {
	case n.producer.Input() <- pm:
		return nil
	default:
		return ErrProducerBusy
	}
}

// Close 刷出缓冲中的消息后关闭，可重复调用
func (n *LikeNotifier) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	n.producer.AsyncClose()
	n.mu.Unlock()

	n.wg.Wait()
	return nil
}
