package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsight/internal/catalog"
	"shopsight/internal/tools"
)

func TestHandler(t *testing.T) {
	llm := &scriptedLLM{responses: []openai.ChatCompletionMessage{answer("Hello from ShopSight")}}
	agent := &Agent{LLM: llm, Tools: &recordingTools{}}
	sessions := NewMemoryHistory()
	h := Handler(agent, sessions)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hello from ShopSight", resp.Answer)
	assert.NotEmpty(t, resp.SessionID)

	history, err := sessions.Get(context.Background(), resp.SessionID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hi", history[0].Content)

	rec = httptest.NewRecorder()
	body := `{"session_id":"` + resp.SessionID + `","message":"again"}`
	h(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	// previous turns are sent to the model
	assert.Len(t, llm.requests[1].Messages, 4)
}

func TestHandlerToolSelection(t *testing.T) {
	offered := func(body string) []string {
		llm := &scriptedLLM{responses: []openai.ChatCompletionMessage{answer("ok")}}
		h := Handler(&Agent{LLM: llm, Tools: &recordingTools{}}, NewMemoryHistory())

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, llm.requests, 1)

		var names []string
		for _, tool := range llm.requests[0].Tools {
			names = append(names, tool.Function.Name)
		}
		return names
	}

	assert.Equal(t, tools.Names(), offered(`{"message":"hi"}`))
	assert.Equal(t, tools.Required, offered(`{"message":"hi","tools":[]}`))
	assert.Equal(t,
		[]string{tools.SearchProducts, tools.GetProductDetails, tools.CheckStock, tools.ListProductCategories},
		offered(`{"message":"hi","tools":["check_stock"]}`))
}

func TestHandlerRejectsBadRequests(t *testing.T) {
	h := Handler(&Agent{LLM: &scriptedLLM{}, Tools: &recordingTools{}}, NewMemoryHistory())

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"  "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name,price,category\n1,A,10,X\n"), 0o644))

	rec := httptest.NewRecorder()
	HealthHandler(catalog.NewStore(path))(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Products)

	rec = httptest.NewRecorder()
	HealthHandler(catalog.NewStore(filepath.Join(dir, "missing.csv")))(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, 0, resp.Products)
	assert.NotEmpty(t, resp.Error)
}
