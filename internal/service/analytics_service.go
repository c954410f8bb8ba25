package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IAnalyticsService drains the analytics topic and persists the
// events the conversation graphs emit during a turn.
type IAnalyticsService interface {
	Consume(ctx context.Context) error
}

type analyticsService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewAnalyticsService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IAnalyticsService {
	return &analyticsService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (as *analyticsService) Consume(ctx context.Context) error {
	messages, err := as.pubSub.Subscribe(ctx, as.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			as.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (as *analyticsService) processMessage(ctx context.Context, msg *message.Message) {
	var payload analyticsPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal analytics event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	sessionId, err := uuid.Parse(payload.SessionId)
	if err != nil {
		log.Printf("[ERROR] Analytics event with invalid session id %q: %v", payload.SessionId, err)
		msg.Ack()
		return
	}
	// Anonymous sessions carry a non-UUID user marker; store the
	// event without a user reference.
	userId, _ := uuid.Parse(payload.UserId)

	uow := as.uowFactory.NewUnitOfWork(ctx)
	event := &entity.AnalyticsEvent{
		SessionId:  sessionId,
		UserId:     userId,
		EventType:  payload.EventType,
		Properties: payload.Properties,
		CreatedAt:  payload.OccurredAt,
	}
	if err := uow.AnalyticsEventRepository().Create(ctx, event); err != nil {
		log.Printf("[ERROR] Failed to persist analytics event %s: %v", payload.EventType, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
