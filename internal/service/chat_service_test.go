package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"timecapsule-be/internal/constant"
	"timecapsule-be/internal/dto"
	"timecapsule-be/internal/entity"
	"timecapsule-be/internal/pkg/serverutils"
	"timecapsule-be/internal/repository/contract"
	"timecapsule-be/internal/repository/memory"
	"timecapsule-be/internal/repository/specification"
	"timecapsule-be/internal/repository/unitofwork"
	"timecapsule-be/pkg/llm"
	"timecapsule-be/pkg/persona/history"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakes backed by in-memory maps, specification-aware where the service
// relies on it

type fakeSessionRepo struct {
	contract.ChatSessionRepository
	sessions map[uuid.UUID]*entity.ChatSession
}

func (f *fakeSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			session, found := f.sessions[byID.ID]
			if !found {
				return nil, nil
			}
			for _, sp := range specs {
				if owned, ok := sp.(specification.UserOwnedBy); ok && session.UserId != owned.UserID {
					return nil, nil
				}
			}
			return session, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) Create(_ context.Context, session *entity.ChatSession) error {
	f.sessions[session.Id] = session
	return nil
}

func (f *fakeSessionRepo) Update(_ context.Context, session *entity.ChatSession) error {
	f.sessions[session.Id] = session
	return nil
}

type fakeMessageRepo struct {
	contract.ChatMessageRepository
	messages []*entity.ChatMessage
}

func (f *fakeMessageRepo) Create(_ context.Context, message *entity.ChatMessage) error {
	message.Seq = int64(len(f.messages) + 1)
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeMessageRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	return f.forSession(specs), nil
}

func (f *fakeMessageRepo) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.forSession(specs))), nil
}

func (f *fakeMessageRepo) forSession(specs []specification.Specification) []*entity.ChatMessage {
	out := make([]*entity.ChatMessage, 0, len(f.messages))
	for _, m := range f.messages {
		keep := true
		for _, spec := range specs {
			if bySession, ok := spec.(specification.ByChatSessionID); ok && m.ChatSessionId != bySession.ChatSessionID {
				keep = false
			}
		}
		if keep {
			out = append(out, m)
		}
	}
	return out
}

type fakeUserRepo struct {
	contract.UserRepository
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, spec := range specs {
		if byID, ok := spec.(specification.ByID); ok {
			return f.users[byID.ID], nil
		}
	}
	return nil, nil
}

type fakeChatUow struct {
	unitofwork.UnitOfWork
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
	users    *fakeUserRepo
}

func (f *fakeChatUow) ChatSessionRepository() contract.ChatSessionRepository { return f.sessions }
func (f *fakeChatUow) ChatMessageRepository() contract.ChatMessageRepository { return f.messages }
func (f *fakeChatUow) UserRepository() contract.UserRepository               { return f.users }

type fakeChatFactory struct {
	uow *fakeChatUow
}

func (f *fakeChatFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type stubProvider struct {
	result llm.Result
	calls  int
}

func (p *stubProvider) Send(_ context.Context, _ []llm.Message, _ ...llm.Option) llm.Result {
	p.calls++
	return p.result
}

type capturingPublisher struct {
	payloads [][]byte
}

func (p *capturingPublisher) Publish(_ context.Context, payload []byte) error {
	p.payloads = append(p.payloads, payload)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type chatFixture struct {
	service  IChatService
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
	users    *fakeUserRepo
}

func newChatFixture(provider llm.Provider, publisher IPublisherService) *chatFixture {
	uow := &fakeChatUow{
		sessions: &fakeSessionRepo{sessions: map[uuid.UUID]*entity.ChatSession{}},
		messages: &fakeMessageRepo{},
		users:    &fakeUserRepo{users: map[uuid.UUID]*entity.User{}},
	}
	factory := &fakeChatFactory{uow: uow}
	loader := history.NewLoader(factory, memory.NewSessionCache(16, time.Minute), 10)

	return &chatFixture{
		service:  NewChatService(factory, provider, loader, 10, publisher, nil, nopLogger{}),
		sessions: uow.sessions,
		messages: uow.messages,
		users:    uow.users,
	}
}

func (f *chatFixture) addUser(complete bool) uuid.UUID {
	userId := uuid.New()
	user := &entity.User{
		Id:       userId,
		Name:     "Lee",
		Age:      30,
		Language: constant.LanguageChinese,
	}
	if complete {
		user.ProfileData = map[string]string{"hobbies_at_20": "chess"}
	}
	f.users.users[userId] = user
	return userId
}

func (f *chatFixture) addSession(ownerId uuid.UUID, title string) uuid.UUID {
	sessionId := uuid.New()
	f.sessions.sessions[sessionId] = &entity.ChatSession{
		Id:        sessionId,
		UserId:    ownerId,
		Title:     title,
		CreatedAt: time.Now(),
	}
	return sessionId
}

func TestSendMessage_TerminalResultNotPersisted(t *testing.T) {
	provider := &stubProvider{result: llm.ProviderTerminal(llm.ReasonInsufficientBalance)}
	f := newChatFixture(provider, nil)
	userId := f.addUser(true)
	sessionId := f.addSession(userId, "my session")

	res, err := f.service.SendMessage(context.Background(), userId, sessionId, &dto.SendMessageRequest{Content: "hello"})
	require.NoError(t, err)
	require.NotNil(t, res.Reply)

	assert.False(t, res.Reply.Persisted)
	assert.Nil(t, res.Reply.Reply)
	assert.Equal(t, constant.InsufficientBalanceZh, res.Reply.Content)

	// Only the user turn reaches storage; the outage never becomes a
	// transcript entry.
	require.Len(t, f.messages.messages, 1)
	assert.Equal(t, constant.ChatMessageRoleUser, f.messages.messages[0].Role)
	assert.Equal(t, "hello", f.messages.messages[0].Content)
}

func TestSendMessage_OwnershipMismatchMintsReplacement(t *testing.T) {
	f := newChatFixture(nil, nil)
	callerId := f.addUser(true)
	sessionId := f.addSession(uuid.New(), "someone else's session")

	_, err := f.service.SendMessage(context.Background(), callerId, sessionId, &dto.SendMessageRequest{Content: "hello"})
	require.Error(t, err)

	appErr, ok := err.(*serverutils.AppError)
	require.True(t, ok)
	assert.Equal(t, constant.ErrCodeSessionOwnership, appErr.Code)
	assert.Equal(t, 403, appErr.HTTPStatus)

	rawId, ok := appErr.Details["new_session_id"].(string)
	require.True(t, ok)
	newSessionId, parseErr := uuid.Parse(rawId)
	require.NoError(t, parseErr)

	replacement := f.sessions.sessions[newSessionId]
	require.NotNil(t, replacement)
	assert.Equal(t, callerId, replacement.UserId)

	// Nothing was appended to the foreign session.
	assert.Empty(t, f.messages.messages)
}

func TestSendMessage_IncompleteProfileRedirects(t *testing.T) {
	f := newChatFixture(nil, nil)
	userId := f.addUser(false)
	sessionId := f.addSession(userId, "my session")

	res, err := f.service.SendMessage(context.Background(), userId, sessionId, &dto.SendMessageRequest{Content: "hello"})
	require.NoError(t, err)

	require.NotNil(t, res.Redirect)
	assert.Nil(t, res.Reply)
	assert.Equal(t, constant.ProfileRedirectURL, res.Redirect.RedirectURL)
	assert.Equal(t, constant.ProfileIncompleteZh, res.Redirect.Message)

	// The typed message survives the redirect; no assistant turn follows it.
	require.Len(t, f.messages.messages, 1)
	assert.Equal(t, constant.ChatMessageRoleUser, f.messages.messages[0].Role)
}

func TestSendMessage_MissingProfileRedirects(t *testing.T) {
	f := newChatFixture(nil, nil)
	userId := uuid.New() // no user record at all
	sessionId := f.addSession(userId, "my session")

	res, err := f.service.SendMessage(context.Background(), userId, sessionId, &dto.SendMessageRequest{Content: "hello"})
	require.NoError(t, err)

	require.NotNil(t, res.Redirect)
	assert.Equal(t, constant.ProfileMissingZh, res.Redirect.Message)
}

func TestSendMessage_DegradedProviderFallsBackToMock(t *testing.T) {
	provider := &stubProvider{result: llm.Degraded(llm.ReasonExhaustedRetries)}
	f := newChatFixture(provider, nil)
	userId := f.addUser(true)
	sessionId := f.addSession(userId, "my session")

	res, err := f.service.SendMessage(context.Background(), userId, sessionId, &dto.SendMessageRequest{Content: "hello"})
	require.NoError(t, err)
	require.NotNil(t, res.Reply)

	assert.True(t, res.Reply.Persisted)
	assert.True(t, strings.HasPrefix(res.Reply.Content, "Echo: hello"))

	// The mock text persists, tagged with the provider's degraded reason so
	// it never re-enters context.
	require.Len(t, f.messages.messages, 2)
	assistant := f.messages.messages[1]
	assert.Equal(t, constant.ChatMessageRoleAssistant, assistant.Role)
	assert.Equal(t, "degraded:exhausted_retries", assistant.ResultTag)
}

func TestSendMessage_MockOnlyPersistsWithMockTag(t *testing.T) {
	f := newChatFixture(nil, nil) // no provider configured
	userId := f.addUser(true)
	sessionId := f.addSession(userId, "my session")

	res, err := f.service.SendMessage(context.Background(), userId, sessionId, &dto.SendMessageRequest{Content: "hello"})
	require.NoError(t, err)
	require.NotNil(t, res.Reply)

	require.Len(t, f.messages.messages, 2)
	assert.Equal(t, "degraded:mock", f.messages.messages[1].ResultTag)
}

func TestSendMessage_TitlesOnlyFirstExchange(t *testing.T) {
	publisher := &capturingPublisher{}
	f := newChatFixture(nil, publisher)
	userId := f.addUser(true)
	sessionId := f.addSession(userId, "Unnamed session")

	_, err := f.service.SendMessage(context.Background(), userId, sessionId, &dto.SendMessageRequest{Content: "first question"})
	require.NoError(t, err)
	require.Len(t, publisher.payloads, 1)

	var payload dto.PublishSessionTitleMessage
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &payload))
	assert.Equal(t, sessionId, payload.SessionId)
	assert.Equal(t, "first question", payload.FirstMessage)

	// A second exchange must not re-publish even while the title is still
	// the default (consumer lag).
	_, err = f.service.SendMessage(context.Background(), userId, sessionId, &dto.SendMessageRequest{Content: "second question"})
	require.NoError(t, err)
	assert.Len(t, publisher.payloads, 1)
}
