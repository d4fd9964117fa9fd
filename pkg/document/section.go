package document

import "strings"

const (
	YAMLHeader   = "---"
	CommentStart = "<!--"
	CommentEnd   = "-->"
)

type SectionKind string

const (
	SectionKindHeader  SectionKind = "Header"
	SectionKindMeta    SectionKind = "Meta"
	SectionKindContent SectionKind = "Content"
)

// Section is a contiguous span of a document.
//
// Text holds every original line of the span, delimiters included, so that
// the span can be written back unchanged. Value only holds the payload lines:
// the YAML mapping for Header and Meta sections, the message body for Content.
type Section struct {
	Kind  SectionKind `yaml:"kind" json:"kind"`
	Text  []string    `yaml:"text" json:"text"`
	Value []string    `yaml:"value" json:"value"`
}

// Payload joins the value lines with LF.
func (s Section) Payload() string {
	return strings.Join(s.Value, "\n")
}

func (s *Section) appendText(line string) {
	s.Text = append(s.Text, line)
}

func (s *Section) appendLine(line string) {
	s.Text = append(s.Text, line)
	s.Value = append(s.Value, line)
}

// NewInlineMetaSection renders payload as a single line meta section, the
// form Tokenize reads back as a Meta section with Value == []string{payload}.
func NewInlineMetaSection(payload string) Section {
	return Section{
		Kind:  SectionKindMeta,
		Text:  []string{CommentStart + " " + payload + " " + CommentEnd},
		Value: []string{payload},
	}
}
