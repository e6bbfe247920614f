package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomadtravel/nomad/internal/api/handler"
	"github.com/nomadtravel/nomad/internal/api/models"
	"github.com/nomadtravel/nomad/internal/nomadai"
)

func TestAssistantHandler_Chat(t *testing.T) {
	chatter := &fakeChatter{reply: "Try the Griffith Observatory at sunset."}
	h := handler.NewAssistantHandler(newWorkspaces(&fakeLookup{}, chatter), zerolog.Nop())

	body := `{"messages":[{"role":"user","content":"What should I see in LA?"}],"context":{"day":"sat-321"}}`
	rec := httptest.NewRecorder()
	h.Chat(rec, newRequest(http.MethodPost, "/v1/assistant/chat", body, nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, chatter.reply, got.Reply)
}

func TestAssistantHandler_ChatErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		chatErr    error
		wantStatus int
		wantType   string
	}{
		{
			name:       "empty history",
			body:       `{"messages":[]}`,
			wantStatus: http.StatusBadRequest,
			wantType:   models.ProblemTypeValidation,
		},
		{
			name:       "unknown role",
			body:       `{"messages":[{"role":"robot","content":"hi"}]}`,
			wantStatus: http.StatusBadRequest,
			wantType:   models.ProblemTypeValidation,
		},
		{
			name: "backend unreachable",
			body: `{"messages":[{"role":"user","content":"hi"}]}`,
			chatErr: &nomadai.Error{
				Endpoint: "/api/chat",
				Code:     "REQUEST_FAILED",
				Message:  "request failed",
				Err:      nomadai.ErrBackendUnavailable,
			},
			wantStatus: http.StatusServiceUnavailable,
			wantType:   models.ProblemTypeUnavailable,
		},
		{
			name:       "backend failure",
			body:       `{"messages":[{"role":"user","content":"hi"}]}`,
			chatErr:    errors.New("POST /api/chat failed: 500 model overloaded"),
			wantStatus: http.StatusBadGateway,
			wantType:   models.ProblemTypeBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatter := &fakeChatter{reply: "unused", err: tt.chatErr}
			h := handler.NewAssistantHandler(newWorkspaces(&fakeLookup{}, chatter), zerolog.Nop())

			rec := httptest.NewRecorder()
			h.Chat(rec, newRequest(http.MethodPost, "/v1/assistant/chat", tt.body, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			p := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, p.Type)
			if tt.chatErr != nil {
				assert.NotEmpty(t, p.Detail)
			}
		})
	}
}
