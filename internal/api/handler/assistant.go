package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nomadtravel/nomad/internal/api/models"
	"github.com/nomadtravel/nomad/internal/api/response"
	"github.com/nomadtravel/nomad/internal/planner"
)

// AssistantHandler handles the travel chat.
type AssistantHandler struct {
	workspaces *planner.Registry
	logger     zerolog.Logger
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(workspaces *planner.Registry, logger zerolog.Logger) *AssistantHandler {
	return &AssistantHandler{workspaces: workspaces, logger: logger}
}

// Chat handles POST /v1/assistant/chat - send the conversation, get one reply.
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input models.ChatRequest
	if err := response.DecodeJSON(w, r, &input); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	reply, err := h.workspaces.For(s.UserID).Chat(r.Context(), fromMessages(input.Messages), input.Context)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.ChatResponse{Reply: reply})
}
