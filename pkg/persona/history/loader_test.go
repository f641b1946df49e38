package history

import (
	"context"
	"testing"
	"time"

	"timecapsule-be/internal/constant"
	"timecapsule-be/internal/entity"
	"timecapsule-be/internal/repository/contract"
	"timecapsule-be/internal/repository/memory"
	"timecapsule-be/internal/repository/specification"
	"timecapsule-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userMsg(content string) *entity.ChatMessage {
	return &entity.ChatMessage{Id: uuid.New(), Role: constant.ChatMessageRoleUser, Content: content}
}

func assistantMsg(content, tag string) *entity.ChatMessage {
	return &entity.ChatMessage{Id: uuid.New(), Role: constant.ChatMessageRoleAssistant, Content: content, ResultTag: tag}
}

func TestFilter_DropsTaggedAssistantTurns(t *testing.T) {
	transcript := []*entity.ChatMessage{
		userMsg("hello"),
		assistantMsg("Echo: hello", "degraded:mock"),
		assistantMsg("hi there", ""),
	}

	kept := Filter(transcript, 10, "how are you")

	require.Len(t, kept, 2)
	assert.Equal(t, "hello", kept[0].Content)
	assert.Equal(t, "hi there", kept[1].Content)
}

func TestFilter_DeduplicatesOnPrefix(t *testing.T) {
	transcript := []*entity.ChatMessage{
		userMsg("repeat me"),
		assistantMsg("sure", ""),
		userMsg("  repeat me  "),
	}

	kept := Filter(transcript, 10, "something else")

	require.Len(t, kept, 2)
	// The newest occurrence wins the scan; the older duplicate is dropped.
	assert.Equal(t, "sure", kept[0].Content)
	assert.Equal(t, "  repeat me  ", kept[1].Content)
}

func TestFilter_DropsCurrentMessageDuplicate(t *testing.T) {
	transcript := []*entity.ChatMessage{
		userMsg("old question"),
		assistantMsg("old answer", ""),
		userMsg("new question"),
	}

	kept := Filter(transcript, 10, "  new question ")

	require.Len(t, kept, 2)
	assert.Equal(t, "old question", kept[0].Content)
	assert.Equal(t, "old answer", kept[1].Content)
}

func TestFilter_WindowLimitsToNewest(t *testing.T) {
	var transcript []*entity.ChatMessage
	for i := 0; i < 15; i++ {
		transcript = append(transcript, userMsg(uuid.NewString()))
	}

	kept := Filter(transcript, 10, "current")

	require.Len(t, kept, 10)
	assert.Equal(t, transcript[5].Content, kept[0].Content)
	assert.Equal(t, transcript[14].Content, kept[9].Content)
}

func TestFilter_EmptyTranscript(t *testing.T) {
	assert.Empty(t, Filter(nil, 10, "hello"))
}

// fake unit of work backed by a static message slice

type fakeMessageRepo struct {
	contract.ChatMessageRepository
	messages []*entity.ChatMessage
	calls    int
}

func (f *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	f.calls++
	return f.messages, nil
}

type fakeUow struct {
	unitofwork.UnitOfWork
	messages *fakeMessageRepo
}

func (f *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return f.messages
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func TestLoader_ReadThroughCache(t *testing.T) {
	repo := &fakeMessageRepo{messages: []*entity.ChatMessage{userMsg("hello")}}
	factory := &fakeFactory{uow: &fakeUow{messages: repo}}
	cache := memory.NewSessionCache(16, time.Minute)
	loader := NewLoader(factory, cache, 10)

	sessionId := uuid.New()

	first, err := loader.Load(context.Background(), sessionId)
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, repo.calls)

	// Second load is served from the cache.
	second, err := loader.Load(context.Background(), sessionId)
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.Equal(t, 1, repo.calls)

	// Invalidation forces a store round trip again.
	loader.Invalidate(sessionId)
	_, err = loader.Load(context.Background(), sessionId)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestLoader_BuildShape(t *testing.T) {
	repo := &fakeMessageRepo{messages: []*entity.ChatMessage{
		userMsg("first"),
		assistantMsg("reply", ""),
	}}
	factory := &fakeFactory{uow: &fakeUow{messages: repo}}
	loader := NewLoader(factory, memory.NewSessionCache(16, time.Minute), 10)

	msgs, err := loader.Build(context.Background(), uuid.New(), "system prompt", "second")
	require.NoError(t, err)

	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "system prompt", msgs[0].Content)
	assert.Equal(t, "first", msgs[1].Content)
	assert.Equal(t, "reply", msgs[2].Content)
	assert.Equal(t, constant.ChatMessageRoleUser, msgs[3].Role)
	assert.Equal(t, "second", msgs[3].Content)
}
