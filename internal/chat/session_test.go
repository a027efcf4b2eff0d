package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsight/internal/model"
)

func TestTrimHistory(t *testing.T) {
	var history []model.ChatMessage
	for i := 0; i < 15; i++ {
		history = append(history, model.ChatMessage{Role: "user", Content: fmt.Sprint(i)})
	}

	got := trimHistory(history, historyLimit)
	require.Len(t, got, historyLimit)
	assert.Equal(t, "5", got[0].Content)
	assert.Equal(t, "14", got[len(got)-1].Content)

	assert.Len(t, trimHistory(history[:3], historyLimit), 3)
}

func TestMemoryHistory(t *testing.T) {
	ctx := context.Background()
	h := NewMemoryHistory()

	got, err := h.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)

	for i := 0; i < 6; i++ {
		require.NoError(t, h.Append(ctx, "s1",
			model.ChatMessage{Role: "user", Content: fmt.Sprint("q", i)},
			model.ChatMessage{Role: "assistant", Content: fmt.Sprint("a", i)},
		))
	}

	got, err = h.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, historyLimit)
	assert.Equal(t, "q1", got[0].Content)

	other, _ := h.Get(ctx, "s2")
	assert.Empty(t, other)
}

func TestNewRedisClient(t *testing.T) {
	c, err := NewRedisClient("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", c.Options().Addr)

	c, err = NewRedisClient("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", c.Options().Addr)
	assert.Equal(t, 2, c.Options().DB)

	_, err = NewRedisClient("http://bad")
	assert.Error(t, err)
}
