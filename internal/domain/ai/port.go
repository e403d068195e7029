package ai

import "context"

// Message roles understood by the generation service.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

// CompletionRequest is one call to the generation service. When JSON is set
// the reply must be a single JSON object.
type CompletionRequest struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
	JSON        bool
}

type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Model is the identifier stamped on successful analyses.
	Model() string
}
