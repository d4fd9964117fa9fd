package dialogue

import (
	"github.com/go-go-golems/notegpt/pkg/completion"
)

// WithDialogue returns a copy of prev carrying the dialogue's messages,
// system prompt and temperature. Messages without content are sent as empty
// strings, a missing system message as an empty system prompt. The
// temperature of prev is kept when the dialogue does not set one.
func WithDialogue(prev completion.CompletionParams, d *Dialogue) completion.CompletionParams {
	ret := prev.Clone()

	messages := make([]completion.Message, 0, len(d.Messages))
	for _, m := range d.Messages {
		messages = append(messages, completion.Message{
			Role:    m.Options.Role,
			Content: m.ContentOrEmpty(),
		})
	}
	ret.Messages = messages

	ret.System = ""
	if d.System != nil {
		ret.System = d.System.ContentOrEmpty()
	}

	if d.Options.Temperature != nil {
		temperature := *d.Options.Temperature
		ret.Temperature = &temperature
	}

	return *ret
}
