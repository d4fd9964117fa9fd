package dialogue

import (
	"github.com/pkg/errors"
)

const RoleSystem = "system"

var (
	ErrEmptyDocument           = errors.New("empty document")
	ErrInvalidHeader           = errors.New("invalid dialogue header")
	ErrInvalidMessageOptions   = errors.New("invalid message options")
	ErrInvalidMessageStructure = errors.New("invalid message")
	ErrMultipleSystemMessages  = errors.New("multiple system messages is not allowed")
)

// BaseOptions is the configuration a dialogue starts from before the
// document header overrides anything.
type BaseOptions struct {
	Model               string
	Temperature         *float64
	SkipMessageHeader   bool
	SystemPromptDefault string
}

type DialogueOptions struct {
	Model             string   `yaml:"model" json:"model"`
	Temperature       *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	SkipMessageHeader bool     `yaml:"skipMessageHeader" json:"skipMessageHeader"`
}

// headerOptions holds the keys a document header may override.
type headerOptions struct {
	SkipMessageHeader *bool    `yaml:"skipMessageHeader"`
	Model             *string  `yaml:"model"`
	Temperature       *float64 `yaml:"temperature"`
}

var headerSchema = Schema{
	Properties: map[string]FieldType{
		"skipMessageHeader": FieldTypeBoolean,
		"model":             FieldTypeString,
		"temperature":       FieldTypeNumber,
	},
}

var messageOptionsSchema = Schema{
	Properties: map[string]FieldType{
		"role": FieldTypeString,
	},
	Required: []string{"role"},
}

func mergeOptions(base BaseOptions, header headerOptions) DialogueOptions {
	ret := DialogueOptions{
		Model:             base.Model,
		Temperature:       base.Temperature,
		SkipMessageHeader: base.SkipMessageHeader,
	}
	if header.Model != nil {
		ret.Model = *header.Model
	}
	if header.Temperature != nil {
		ret.Temperature = header.Temperature
	}
	if header.SkipMessageHeader != nil {
		ret.SkipMessageHeader = *header.SkipMessageHeader
	}
	return ret
}

type MessageOptions struct {
	Role string `yaml:"role" json:"role"`
}

// Message is one turn of a dialogue. Content is nil when the meta block of
// the message is not followed by any content.
type Message struct {
	Options MessageOptions `yaml:"options" json:"options"`
	Content *string        `yaml:"content,omitempty" json:"content,omitempty"`
}

// ContentOrEmpty returns the content, or "" when the message has none.
func (m Message) ContentOrEmpty() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// Dialogue is a parsed document. The system message, if any, is never part
// of Messages.
type Dialogue struct {
	Options  DialogueOptions `yaml:"options" json:"options"`
	System   *Message        `yaml:"system,omitempty" json:"system,omitempty"`
	Messages []Message       `yaml:"messages" json:"messages"`
}

