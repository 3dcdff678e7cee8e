package chat

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"petchat/backend/internal/middleware"
	"petchat/backend/internal/safety"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Chat handles POST /chat. Either a full reply or an error shape is written,
// never a partial result; a safety block is a success response with the
// blocked flag set.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	addr := middleware.ClientAddr(r)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Chat(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, safety.ErrEmptyMessage) {
			h.writeError(w, "Missing 'message'", http.StatusBadRequest)
			return
		}
		slog.ErrorContext(r.Context(), "ERROR", "ip", addr, "error", err)
		h.writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if resp.Blocked {
		slog.InfoContext(r.Context(), "SAFETY_BLOCK", "ip", addr)
	} else {
		slog.InfoContext(r.Context(), "CHAT", "ip", addr, "len", len(req.Message), "rag_used", resp.RAG.Used)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"ok":    false,
		"error": message,
		"rag":   RAGInfo{Used: 0, Sources: []Source{}},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
