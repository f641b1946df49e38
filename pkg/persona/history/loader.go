package history

import (
	"context"
	"strings"

	"timecapsule-be/internal/constant"
	"timecapsule-be/internal/entity"
	"timecapsule-be/internal/repository/memory"
	"timecapsule-be/internal/repository/specification"
	"timecapsule-be/internal/repository/unitofwork"
	"timecapsule-be/pkg/llm"

	"github.com/google/uuid"
)

const dedupPrefixLen = 50

// Loader assembles provider context windows from the session transcript,
// reading through the snapshot cache.
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.SessionCache
	window     int
}

func NewLoader(uowFactory unitofwork.RepositoryFactory, cache *memory.SessionCache, window int) *Loader {
	return &Loader{
		uowFactory: uowFactory,
		cache:      cache,
		window:     window,
	}
}

// Load returns the full session transcript in chronological order. A cache
// hit skips the store entirely; a miss populates the cache.
func (l *Loader) Load(ctx context.Context, sessionId uuid.UUID) ([]*entity.ChatMessage, error) {
	if msgs, found := l.cache.Get(sessionId); found {
		return msgs, nil
	}

	uow := l.uowFactory.NewUnitOfWork(ctx)
	msgs, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.ChronologicalOrder{},
	)
	if err != nil {
		return nil, err
	}

	l.cache.Save(sessionId, msgs)
	return msgs, nil
}

// Invalidate drops the cached transcript after a write.
func (l *Loader) Invalidate(sessionId uuid.UUID) {
	l.cache.Invalidate(sessionId)
}

// Build produces the message sequence for a provider call: system prompt,
// filtered history window, then the new user message.
func (l *Loader) Build(ctx context.Context, sessionId uuid.UUID, systemPrompt, userMessage string) ([]llm.Message, error) {
	transcript, err := l.Load(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	kept := Filter(transcript, l.window, userMessage)

	out := make([]llm.Message, 0, len(kept)+2)
	out = append(out, llm.Message{Role: "system", Content: systemPrompt})
	for _, m := range kept {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	out = append(out, llm.Message{Role: constant.ChatMessageRoleUser, Content: userMessage})
	return out, nil
}

// Filter reduces a chronological transcript to the context window:
// the newest `window` messages, minus degraded/terminal assistant turns,
// minus near-duplicates (first 50 chars of trimmed content), minus user
// turns equal to the message being answered. The result is chronological
// again. The mock responder shares this filter so its echoed history
// matches what a real provider would have seen.
//
// Duplicate resolution is intentionally newest-wins: the scan runs
// newest-first and older repeats drop out, keeping the window anchored on
// recent phrasing. A chronological seen-set walk would keep the oldest
// repeat instead; don't flip the scan direction without also deciding
// which occurrence the context should keep.
func Filter(transcript []*entity.ChatMessage, window int, newMessage string) []*entity.ChatMessage {
	if window > 0 && len(transcript) > window {
		transcript = transcript[len(transcript)-window:]
	}

	trimmedNew := strings.TrimSpace(newMessage)
	seen := make(map[string]struct{}, len(transcript))
	kept := make([]*entity.ChatMessage, 0, len(transcript))

	for i := len(transcript) - 1; i >= 0; i-- {
		m := transcript[i]
		if m.Role == constant.ChatMessageRoleAssistant && m.ResultTag != "" {
			continue
		}
		trimmed := strings.TrimSpace(m.Content)
		key := contentKey(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if m.Role == constant.ChatMessageRoleUser && trimmed == trimmedNew {
			continue
		}
		kept = append(kept, m)
	}

	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}

func contentKey(trimmed string) string {
	runes := []rune(trimmed)
	if len(runes) > dedupPrefixLen {
		runes = runes[:dedupPrefixLen]
	}
	return string(runes)
}
