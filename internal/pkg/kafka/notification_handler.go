package kafka

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/mongo"
	"Atelier/internal/pkg/util"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

const likeNotificationContent = "点赞了你的帖子"

// NotificationHandler 消费点赞通知并写入作者的通知箱
type NotificationHandler struct {
	sysBoxRepo mongo.SysBoxRepo
	now        func() time.Time
}

func NewNotificationHandler(sysBoxRepo mongo.SysBoxRepo) *NotificationHandler {
	return &NotificationHandler{
		sysBoxRepo: sysBoxRepo,
		now:        time.Now,
	}
}

func (h *NotificationHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("like notification consumer setup")
	return nil
}

func (h *NotificationHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("like notification consumer cleanup")
	return nil
}

func (h *NotificationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, h.logic)
}

// logic 格式错误的消息直接丢弃，只有写库失败才会重试
func (h *NotificationHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var n dto.LikeNotification
	if err := json.Unmarshal(msg.Value, &n); err != nil {
		log.WarnContext(ctx, "drop malformed like notification", "offset", msg.Offset, "err", err)
		return nil
	}
	if err := util.ValidateDTO(&n); err != nil {
		log.WarnContext(ctx, "drop invalid like notification", "offset", msg.Offset, "err", err)
		return nil
	}
	if n.ActorID == n.AuthorID {
		return nil
	}

	createdAt := h.now()
	if n.CreatedAt > 0 {
		createdAt = time.UnixMilli(n.CreatedAt)
	}

	return h.sysBoxRepo.CreateNotification(ctx, &mongo.SysBoxModel{
		ReceiverID: n.AuthorID,
		SenderID:   n.ActorID,
		Type:       consts.NotifyTypeLike,
		TargetID:   n.PostID,
		Content:    likeNotificationContent,
		Payload: map[string]any{
			"post_title": n.PostTitle,
		},
		CreatedAt: createdAt,
	})
}
