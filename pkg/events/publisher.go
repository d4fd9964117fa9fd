package events

import (
	"strings"

	"github.com/go-go-golems/notegpt/pkg/completion"
	"github.com/google/uuid"
)

// StreamPublisher turns the deltas of a streamed completion into events.
// A delta carrying a role starts a new message.
type StreamPublisher struct {
	sink     EventSink
	model    string
	metadata EventMetadata
	started  bool
	text     strings.Builder
}

func NewStreamPublisher(sink EventSink, model string) *StreamPublisher {
	return &StreamPublisher{
		sink:  sink,
		model: model,
	}
}

// OnDelta is a completion.DeltaFunc.
func (p *StreamPublisher) OnDelta(delta completion.MessageDelta) error {
	if delta.Role != nil {
		if err := p.finish(); err != nil {
			return err
		}
		p.metadata = EventMetadata{
			ID:    uuid.New(),
			Model: p.model,
			Role:  *delta.Role,
		}
		p.started = true
		if err := p.sink.PublishEvent(NewStartEvent(p.metadata)); err != nil {
			return err
		}
	}

	if delta.Content != nil {
		if !p.started {
			// content without a role continues as an assistant message
			role := RoleAssistant
			if err := p.OnDelta(completion.MessageDelta{Role: &role}); err != nil {
				return err
			}
		}
		p.text.WriteString(*delta.Content)
		return p.sink.PublishEvent(NewPartialCompletionEvent(p.metadata, *delta.Content, p.text.String()))
	}

	return nil
}

const RoleAssistant = "assistant"

// Message publishes a complete, non-streamed message as a start event
// followed by a single partial event.
func (p *StreamPublisher) Message(m completion.Message) error {
	role := m.Role
	if role == "" {
		role = RoleAssistant
	}
	content := m.Content
	return p.OnDelta(completion.MessageDelta{Role: &role, Content: &content})
}

// Close publishes the final event of the current message.
func (p *StreamPublisher) Close() error {
	return p.finish()
}

// Fail publishes err for the current message.
func (p *StreamPublisher) Fail(err error) error {
	md := p.metadata
	if !p.started {
		md = EventMetadata{ID: uuid.New(), Model: p.model}
	}
	p.started = false
	p.text.Reset()
	return p.sink.PublishEvent(NewErrorEvent(md, err))
}

func (p *StreamPublisher) finish() error {
	if !p.started {
		return nil
	}
	p.started = false
	text := p.text.String()
	p.text.Reset()
	return p.sink.PublishEvent(NewFinalEvent(p.metadata, text))
}
