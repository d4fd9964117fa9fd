package dialogue

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-go-golems/notegpt/pkg/document"
	"gopkg.in/yaml.v3"
)

// FormatMessage renders a message as document lines: an inline meta line
// followed by the content lines. A message without content only produces the
// meta line. Parsing the result yields the same role and content.
func FormatMessage(m Message) []string {
	meta := document.NewInlineMetaSection("{role: " + yamlScalar(m.Options.Role) + "}")
	ret := append([]string{}, meta.Text...)
	if m.Content != nil {
		ret = append(ret, strings.Split(*m.Content, "\n")...)
	}
	return ret
}

// yamlScalar returns s as a YAML flow scalar, quoted only when needed.
func yamlScalar(s string) string {
	node := yaml.Node{Kind: yaml.ScalarNode, Value: s, Tag: "!!str"}
	b, err := yaml.Marshal(&node)
	if err != nil {
		return s
	}
	ret := strings.TrimSuffix(string(b), "\n")
	if strings.Contains(ret, "\n") {
		return strconv.Quote(s)
	}
	quoted := strings.HasPrefix(ret, "\"") || strings.HasPrefix(ret, "'")
	if !quoted && strings.ContainsAny(ret, "{},[]") {
		return strconv.Quote(s)
	}
	return ret
}

// MessageHeading is the markdown heading written in front of new messages
// when message headers are enabled, e.g. "## User". Only the first letter of
// role is uppercased.
func MessageHeading(role string) string {
	r, size := utf8.DecodeRuneInString(role)
	if size == 0 {
		return "## "
	}
	return "## " + string(unicode.ToUpper(r)) + role[size:]
}

// NewMessage builds the message that gets appended to a document for a new
// turn of role, starting its content with body.
func NewMessage(role string, body string, messageHeader bool) Message {
	prefix := "\n"
	if messageHeader {
		prefix = MessageHeading(role) + "\n\n"
	}
	content := prefix + body
	return Message{
		Options: MessageOptions{Role: role},
		Content: &content,
	}
}
