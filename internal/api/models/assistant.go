package models

// ChatRequest is the body of POST /v1/assistant/chat.
type ChatRequest struct {
	Messages []ChatMessage  `json:"messages"`
	Context  map[string]any `json:"context,omitempty"`
}

// ChatMessage is one turn of the conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}
