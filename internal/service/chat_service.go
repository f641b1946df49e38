package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"timecapsule-be/internal/constant"
	"timecapsule-be/internal/dto"
	"timecapsule-be/internal/entity"
	"timecapsule-be/internal/pkg/logger"
	"timecapsule-be/internal/pkg/serverutils"
	"timecapsule-be/internal/repository/specification"
	"timecapsule-be/internal/repository/unitofwork"
	"timecapsule-be/pkg/events"
	"timecapsule-be/pkg/llm"
	"timecapsule-be/pkg/llm/mock"
	pktNats "timecapsule-be/pkg/nats"
	"timecapsule-be/pkg/persona/gate"
	"timecapsule-be/pkg/persona/history"
	"timecapsule-be/pkg/persona/prompt"

	"github.com/google/uuid"
)

const defaultSessionTitle = "Unnamed session"

// IChatService defines the persona chat service interface
type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	GetSessionMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, limit, offset int) (*dto.SessionMessagesResponse, error)
	SendMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, request *dto.SendMessageRequest) (*dto.SendMessageResult, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	provider         llm.Provider // nil when running mock-only
	mockResponder    *mock.Responder
	historyLoader    *history.Loader
	historyWindow    int
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher // optional
	log              logger.ILogger

	// sessionLocks serializes writes per session so read-then-append is
	// atomic. Entries are never removed; sessions are few per process
	// lifetime compared to messages.
	sessionLocks sync.Map
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.Provider,
	historyLoader *history.Loader,
	historyWindow int,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		provider:         provider,
		mockResponder:    mock.NewResponder(),
		historyLoader:    historyLoader,
		historyWindow:    historyWindow,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

func (cs *chatService) lockSession(sessionId uuid.UUID) func() {
	v, _ := cs.sessionLocks.LoadOrStore(sessionId, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	title := defaultSessionTitle
	if request != nil && request.Title != "" {
		title = request.Title
	}

	session := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, serverutils.StorageError(err)
	}

	return sessionToResponse(&session), nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, serverutils.StorageError(err)
	}

	response := make([]*dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		response = append(response, sessionToResponse(s))
	}
	return response, nil
}

func (cs *chatService) GetSessionMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, limit, offset int) (*dto.SessionMessagesResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.resolveOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	specs := []specification.Specification{
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.ChronologicalOrder{},
	}
	if limit > 0 || offset > 0 {
		if limit <= 0 {
			limit = -1 // no cap, offset only
		}
		specs = append(specs, specification.Pagination{Limit: limit, Offset: offset})
	}
	messages, err := uow.ChatMessageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, serverutils.StorageError(err)
	}

	response := &dto.SessionMessagesResponse{
		Session:  *sessionToResponse(session),
		Messages: make([]*dto.MessageResponse, 0, len(messages)),
	}
	for _, m := range messages {
		response.Messages = append(response.Messages, messageToResponse(m))
	}
	return response, nil
}

func (cs *chatService) SendMessage(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, request *dto.SendMessageRequest) (*dto.SendMessageResult, error) {
	unlock := cs.lockSession(sessionId)
	defer unlock()

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.resolveOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	// The user turn is persisted before the gate so nothing typed is lost,
	// even when the reply is a redirect.
	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionId,
		Role:          constant.ChatMessageRoleUser,
		Content:       request.Content,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, serverutils.StorageError(err)
	}
	cs.historyLoader.Invalidate(sessionId)
	cs.touchSession(ctx, uow, session)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, serverutils.StorageError(err)
	}

	language := constant.LanguageChinese
	if user != nil && user.Language != "" {
		language = user.Language
	}

	switch gate.Classify(user) {
	case gate.StatusNoProfile:
		return dto.NewRedirectResult(constant.ProfileRedirectMessage(language, true), constant.ProfileRedirectURL), nil
	case gate.StatusIncomplete:
		return dto.NewRedirectResult(constant.ProfileRedirectMessage(language, false), constant.ProfileRedirectURL), nil
	}

	result := cs.generateReply(ctx, sessionId, user, request.Content)

	reply, err := cs.finishExchange(ctx, uow, session, userMessage.Content, result, language)
	if err != nil {
		return nil, err
	}
	return &dto.SendMessageResult{Reply: reply}, nil
}

// generateReply runs the provider (or the mock fallback) against the
// assembled context.
func (cs *chatService) generateReply(ctx context.Context, sessionId uuid.UUID, user *entity.User, content string) llm.Result {
	if cs.provider == nil {
		return cs.mockReply(ctx, sessionId, user, content, llm.ReasonMock)
	}

	systemPrompt := prompt.Compose(user, time.Now().Year())
	messages, err := cs.historyLoader.Build(ctx, sessionId, systemPrompt, content)
	if err != nil {
		cs.log.Error("chat", "failed to build context", map[string]interface{}{
			"error":      err.Error(),
			"session_id": sessionId.String(),
		})
		return cs.mockReply(ctx, sessionId, user, content, llm.ReasonMock)
	}

	result := cs.provider.Send(ctx, messages)
	if result.Kind == llm.KindDegraded {
		// Degrade to the mock text but keep the provider's reason in the tag.
		return cs.mockReply(ctx, sessionId, user, content, result.Reason)
	}
	return result
}

func (cs *chatService) mockReply(ctx context.Context, sessionId uuid.UUID, user *entity.User, content, reason string) llm.Result {
	var filtered []*entity.ChatMessage
	if transcript, err := cs.historyLoader.Load(ctx, sessionId); err == nil {
		filtered = history.Filter(transcript, cs.historyWindow, content)
	}

	name := ""
	if user != nil {
		name = user.Name
	}
	result := cs.mockResponder.Respond(content, name, filtered)
	result.Reason = reason
	return result
}

// finishExchange persists and reports the assistant side of the turn.
func (cs *chatService) finishExchange(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, userContent string, result llm.Result, language string) (*dto.ChatReplyResponse, error) {
	sessionId := session.Id

	if result.Kind == llm.KindProviderTerminal {
		// Terminal provider states are surfaced but never stored: the
		// transcript should not remember an outage as a conversation turn.
		cs.publishActivity(ctx, session.UserId, sessionId, result.Tag())
		return &dto.ChatReplyResponse{
			SessionId: sessionId,
			Content:   constant.ProviderTerminalMessage(result.Reason, language),
			Persisted: false,
		}, nil
	}

	assistantMessage := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionId,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       result.Text,
		ResultTag:     result.Tag(),
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &assistantMessage); err != nil {
		return nil, serverutils.StorageError(err)
	}
	cs.historyLoader.Invalidate(sessionId)

	// Only the first exchange may title the session. Checking the count
	// rather than just the title keeps a lagging consumer from titling off
	// a later message.
	if session.Title == defaultSessionTitle {
		count, err := uow.ChatMessageRepository().Count(ctx, specification.ByChatSessionID{ChatSessionID: sessionId})
		if err == nil && count == 2 {
			cs.publishTitleRequest(sessionId, userContent)
		}
	}
	cs.publishActivity(ctx, session.UserId, sessionId, result.Tag())

	return &dto.ChatReplyResponse{
		SessionId: sessionId,
		Reply:     messageToResponse(&assistantMessage),
		Content:   assistantMessage.Content,
		Persisted: true,
	}, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	unlock := cs.lockSession(sessionId)
	defer unlock()

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return serverutils.StorageError(err)
	}
	if session == nil {
		return serverutils.NotFoundError("session not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return serverutils.StorageError(err)
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return serverutils.StorageError(err)
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return serverutils.StorageError(err)
	}
	if err := uow.Commit(); err != nil {
		return serverutils.StorageError(err)
	}

	cs.historyLoader.Invalidate(sessionId)
	return nil
}

// resolveOwnedSession loads a session and enforces ownership. On a mismatch
// the caller gets a fresh session of their own inside the error payload, so
// a stale client can recover in one round trip.
func (cs *chatService) resolveOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, serverutils.StorageError(err)
	}
	if session == nil {
		return nil, serverutils.NotFoundError("session not found")
	}
	if session.UserId != userId {
		replacement := entity.ChatSession{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     defaultSessionTitle,
			CreatedAt: time.Now(),
		}
		if err := uow.ChatSessionRepository().Create(ctx, &replacement); err != nil {
			return nil, serverutils.StorageError(err)
		}
		cs.log.Warn("chat", "session ownership mismatch", map[string]interface{}{
			"session_id":     sessionId.String(),
			"new_session_id": replacement.Id.String(),
		})
		return nil, serverutils.SessionOwnershipError(replacement.Id)
	}
	return session, nil
}

func (cs *chatService) touchSession(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession) {
	now := time.Now()
	session.UpdatedAt = &now
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		cs.log.Warn("chat", "failed to bump session timestamp", map[string]interface{}{
			"error":      err.Error(),
			"session_id": session.Id.String(),
		})
	}
}

func (cs *chatService) publishTitleRequest(sessionId uuid.UUID, firstMessage string) {
	if cs.publisherService == nil {
		return
	}
	payload, err := json.Marshal(dto.PublishSessionTitleMessage{
		SessionId:    sessionId,
		FirstMessage: firstMessage,
	})
	if err != nil {
		return
	}
	if err := cs.publisherService.Publish(context.Background(), payload); err != nil {
		cs.log.Warn("chat", "failed to publish title request", map[string]interface{}{"error": err.Error()})
	}
}

func (cs *chatService) publishActivity(ctx context.Context, userId, sessionId uuid.UUID, resultTag string) {
	if cs.eventPublisher == nil {
		return
	}
	if err := cs.eventPublisher.Publish(ctx, events.NewChatMessageSent(userId, sessionId, resultTag)); err != nil {
		cs.log.Warn("chat", "failed to publish activity event", map[string]interface{}{"error": err.Error()})
	}
}

func sessionToResponse(s *entity.ChatSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		Id:        s.Id,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.CreatedAt,
	}
	if s.UpdatedAt != nil {
		resp.UpdatedAt = *s.UpdatedAt
	}
	return resp
}

func messageToResponse(m *entity.ChatMessage) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:        m.Id,
		SessionId: m.ChatSessionId,
		Role:      m.Role,
		Content:   m.Content,
		ResultTag: m.ResultTag,
		CreatedAt: m.CreatedAt,
	}
}
