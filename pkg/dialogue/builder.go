package dialogue

import (
	"strings"

	"github.com/go-go-golems/notegpt/pkg/document"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Parse tokenizes lines and builds the dialogue they describe.
func Parse(lines []string, base BaseOptions) (*Dialogue, error) {
	sections, err := document.Tokenize(lines)
	if err != nil {
		return nil, err
	}
	return Build(sections, base)
}

// Build interprets the sections of a document as a dialogue.
//
// An optional leading header overrides base key by key. Every following
// Meta section starts a message; a Content section right after it becomes
// the message content. A leading system message is moved to
// Dialogue.System, any other system message is an error.
func Build(sections []document.Section, base BaseOptions) (*Dialogue, error) {
	if len(sections) == 0 {
		return nil, ErrEmptyDocument
	}

	header, rest, err := parseHeader(sections)
	if err != nil {
		return nil, err
	}
	options := mergeOptions(base, header)

	messages := []Message{}
	for len(rest) > 0 {
		var message Message
		message, rest, err = parseMessage(rest, options)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	ret := &Dialogue{
		Options:  options,
		Messages: messages,
	}
	if len(messages) == 0 {
		return ret, nil
	}

	if messages[0].Options.Role == RoleSystem {
		system := messages[0]
		ret.System = &system
		ret.Messages = messages[1:]
	}
	for _, m := range ret.Messages {
		if m.Options.Role == RoleSystem {
			return nil, ErrMultipleSystemMessages
		}
	}

	return ret, nil
}

// decodeMapping decodes YAML payload lines and validates them against s.
// out is filled from the same lines once the mapping is known to be valid.
func decodeMapping(lines []string, empty string, s Schema, kind error, out interface{}) error {
	source := strings.Join(lines, "\n")
	if len(lines) == 0 {
		source = empty
	}

	var raw interface{}
	if err := yaml.Unmarshal([]byte(source), &raw); err != nil {
		return &ValidationError{Kind: kind, Problems: []string{err.Error()}}
	}

	if _, err := s.Validate(raw).Value(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.Kind = kind
			return ve
		}
		return errors.Wrap(kind, err.Error())
	}

	if err := yaml.Unmarshal([]byte(source), out); err != nil {
		return &ValidationError{Kind: kind, Problems: []string{err.Error()}}
	}
	return nil
}

func parseHeader(sections []document.Section) (headerOptions, []document.Section, error) {
	ret := headerOptions{}
	if sections[0].Kind != document.SectionKindHeader {
		return ret, sections, nil
	}
	if err := decodeMapping(sections[0].Value, "{}", headerSchema, ErrInvalidHeader, &ret); err != nil {
		return headerOptions{}, nil, err
	}
	return ret, sections[1:], nil
}

func parseMessage(sections []document.Section, options DialogueOptions) (Message, []document.Section, error) {
	if sections[0].Kind != document.SectionKindMeta {
		return Message{}, nil, errors.Wrapf(
			ErrInvalidMessageStructure,
			"expected %s section, got %s", document.SectionKindMeta, sections[0].Kind)
	}

	var messageOptions MessageOptions
	if err := decodeMapping(sections[0].Value, "", messageOptionsSchema, ErrInvalidMessageOptions, &messageOptions); err != nil {
		return Message{}, nil, err
	}
	message := Message{Options: messageOptions}

	if len(sections) == 1 || sections[1].Kind != document.SectionKindContent {
		return message, sections[1:], nil
	}

	lines := append([]string{}, sections[1].Value...)
	if options.SkipMessageHeader {
		lines = skipMessageHeader(lines)
	}
	content := strings.Join(lines, "\n")
	message.Content = &content

	return message, sections[2:], nil
}

// skipMessageHeader drops leading blank lines and "## " headings.
func skipMessageHeader(lines []string) []string {
	for len(lines) > 0 {
		if strings.TrimSpace(lines[0]) != "" && !strings.HasPrefix(lines[0], "## ") {
			break
		}
		lines = lines[1:]
	}
	return lines
}
