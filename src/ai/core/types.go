package core

import "context"

//go:generate mockgen -source=types.go -destination=mocks/mock_client.go -package=mocks

// Options controls model behavior; fields are optional per provider.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int
	SystemPrompt        string
}

// Client is a provider-agnostic text generation client.
type Client interface {
	// Respond sends input as a single user turn and returns the model's raw text.
	// An empty reply is not an error.
	Respond(ctx context.Context, input string, opts Options) (string, error)
}
