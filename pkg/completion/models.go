package completion

import (
	"context"

	"github.com/huandu/go-clone"
)

type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// MessageDelta is one chunk of a streamed completion. Role is set on the
// first chunk of a message, Content on the chunks carrying text.
type MessageDelta struct {
	Role    *string `json:"role,omitempty"`
	Content *string `json:"content,omitempty"`
}

type CompletionParams struct {
	Temperature *float64  `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	System      string    `json:"system" yaml:"system"`
	Messages    []Message `json:"messages" yaml:"messages"`
}

func (p *CompletionParams) Clone() *CompletionParams {
	return clone.Clone(p).(*CompletionParams)
}

type Model interface {
	Completions(ctx context.Context, params CompletionParams) (*Message, error)
}

// DeltaFunc receives the chunks of a streamed completion in order. Returning
// an error aborts the stream.
type DeltaFunc func(delta MessageDelta) error

type StreamingModel interface {
	Model
	CompletionsStreaming(ctx context.Context, params CompletionParams, cb DeltaFunc) error
}
