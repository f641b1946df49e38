package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"timecapsule-be/internal/dto"
	"timecapsule-be/internal/pkg/logger"
	"timecapsule-be/internal/repository/specification"
	"timecapsule-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const sessionTitleMaxLen = 40

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService titles sessions off the request path: the first user
// message of a session becomes its title, truncated for list views.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		log:        log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishSessionTitleMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal title message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: payload.SessionId})
	if err != nil {
		cs.log.Error("consumer", "failed to load session for titling", map[string]interface{}{
			"error":      err.Error(),
			"session_id": payload.SessionId.String(),
		})
		msg.Nack()
		return
	}
	if session == nil {
		// Session deleted before the worker got to it.
		msg.Ack()
		return
	}

	session.Title = SessionTitleFrom(payload.FirstMessage)
	now := time.Now()
	session.UpdatedAt = &now
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		cs.log.Error("consumer", "failed to update session title", map[string]interface{}{
			"error":      err.Error(),
			"session_id": payload.SessionId.String(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}

// SessionTitleFrom derives a list-view title from the first message.
func SessionTitleFrom(firstMessage string) string {
	title := strings.TrimSpace(firstMessage)
	title = strings.ReplaceAll(title, "\n", " ")
	runes := []rune(title)
	if len(runes) > sessionTitleMaxLen {
		title = string(runes[:sessionTitleMaxLen]) + "..."
	}
	if title == "" {
		title = "Unnamed session"
	}
	return title
}
