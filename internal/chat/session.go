package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"shopsight/internal/model"
)

const (
	sessionTTL   = 30 * time.Minute
	historyLimit = 10
	sessionKey   = "chat:"
)

// History stores the turns of a chat session.
type History interface {
	Get(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
	Append(ctx context.Context, sessionID string, msgs ...model.ChatMessage) error
}

// SessionStore keeps chat history in Redis with a sliding TTL.
type SessionStore struct {
	Client *redis.Client
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	val, err := s.Client.Get(ctx, sessionKey+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var msgs []model.ChatMessage
	if err := json.Unmarshal([]byte(val), &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *SessionStore) Append(ctx context.Context, sessionID string, msgs ...model.ChatMessage) error {
	history, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	history = trimHistory(append(history, msgs...), historyLimit)

	b, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, sessionKey+sessionID, b, sessionTTL).Err()
}

// MemoryHistory is a process-local History for the terminal client and tests.
type MemoryHistory struct {
	mu       sync.Mutex
	sessions map[string][]model.ChatMessage
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{sessions: make(map[string][]model.ChatMessage)}
}

func (m *MemoryHistory) Get(_ context.Context, sessionID string) ([]model.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ChatMessage(nil), m.sessions[sessionID]...), nil
}

func (m *MemoryHistory) Append(_ context.Context, sessionID string, msgs ...model.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = trimHistory(append(m.sessions[sessionID], msgs...), historyLimit)
	return nil
}

// trimHistory keeps the last limit messages.
func trimHistory(history []model.ChatMessage, limit int) []model.ChatMessage {
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}
