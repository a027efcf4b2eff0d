package chat

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"shopsight/internal/catalog"
	"shopsight/internal/logging"
	"shopsight/internal/model"
	"shopsight/internal/tools"
)

type ChatRequest struct {
	SessionID string   `json:"session_id"`
	Message   string   `json:"message"`
	Tools     []string `json:"tools"`
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Catalog  string `json:"catalog"`
	Products int    `json:"products"`
	Error    string `json:"error,omitempty"`
}

// Handler serves POST /chat. A request without session_id starts a new session;
// one without tools offers every tool.
func Handler(agent *Agent, sessions History) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.Component("chat")

		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			http.Error(w, "message is required", http.StatusBadRequest)
			return
		}
		if req.Tools == nil {
			req.Tools = tools.Names()
		}
		if req.SessionID == "" {
			req.SessionID = uuid.NewString()
		}

		ctx := r.Context()
		logger.Info().Str("session_id", req.SessionID).Str("message", req.Message).Msg("request received")

		history, err := sessions.Get(ctx, req.SessionID)
		if err != nil {
			logger.Warn().Err(err).Str("session_id", req.SessionID).Msg("history unavailable, continuing without it")
		}

		answer := agent.Reply(ctx, req.Message, history, req.Tools)

		if err := sessions.Append(ctx, req.SessionID,
			model.ChatMessage{Role: "user", Content: req.Message},
			model.ChatMessage{Role: "assistant", Content: answer},
		); err != nil {
			logger.Warn().Err(err).Str("session_id", req.SessionID).Msg("failed to save history")
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ChatResponse{SessionID: req.SessionID, Answer: answer})
	}
}

// HealthHandler serves GET /healthz with the state of the catalog snapshot.
// A catalog that failed to load is reported as degraded, not as an outage.
func HealthHandler(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.Catalog()
		resp := HealthResponse{Status: "ok", Catalog: store.Path(), Products: c.Len()}
		if err != nil {
			resp.Status = "degraded"
			resp.Error = err.Error()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
