package events

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-go-golems/notegpt/pkg/dialogue"
	"github.com/go-go-golems/notegpt/pkg/editor"
	"github.com/rs/zerolog/log"
)

type DocumentHandlerOption func(*documentHandler)

// WithMessageHeader writes a "## Role" heading in front of new messages.
func WithMessageHeader(messageHeader bool) DocumentHandlerOption {
	return func(h *documentHandler) {
		h.messageHeader = messageHeader
	}
}

type documentHandler struct {
	doc           *editor.Document
	messageHeader bool
}

// NewDocumentHandler returns a router handler that writes completion events
// into doc: a start event appends the meta line of a new message, partial
// events append their text to it.
func NewDocumentHandler(doc *editor.Document, options ...DocumentHandlerOption) func(msg *message.Message) error {
	h := &documentHandler{doc: doc}
	for _, o := range options {
		o(h)
	}
	return h.handle
}

func (h *documentHandler) handle(msg *message.Message) error {
	defer msg.Ack()

	e, err := NewEventFromJson(msg.Payload)
	if err != nil {
		// returning the error would make the router redeliver the message
		log.Error().Err(err).Str("message_id", msg.UUID).Msg("could not decode event")
		return nil
	}

	switch e_ := e.(type) {
	case *EventPartialCompletionStart:
		m := dialogue.NewMessage(e_.Metadata().Role, "", h.messageHeader)
		h.doc.AppendLines(dialogue.FormatMessage(m), true)

	case *EventPartialCompletion:
		h.doc.AppendWords(e_.Delta)

	case *EventFinal:
		log.Debug().Object("meta", e_.Metadata()).Int("length", len(e_.Text)).Msg("completion finished")

	case *EventError:
		log.Error().Object("meta", e_.Metadata()).Str("error", e_.ErrorString).Msg("completion failed")
	}

	return nil
}
