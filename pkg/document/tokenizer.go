package document

import (
	"strings"
)

type tokenizerState int

const (
	stateHeaderStart tokenizerState = iota
	stateHeader
	stateHeaderPost
	stateMetaStart
	stateMeta
	stateContentStart
	stateContent
)

func (s tokenizerState) String() string {
	switch s {
	case stateHeaderStart:
		return "header-start"
	case stateHeader:
		return "header"
	case stateHeaderPost:
		return "header-post"
	case stateMetaStart:
		return "meta-start"
	case stateMeta:
		return "meta"
	case stateContentStart:
		return "content-start"
	case stateContent:
		return "content"
	default:
		return "unknown"
	}
}

// maxRedispatch bounds how often a single line can be handed back to the
// state machine under a new state. No valid transition chain needs more
// than two dispatches per line.
const maxRedispatch = 4

type tokenizer struct {
	state    tokenizerState
	sections []Section
}

// Tokenize splits the lines of a document into Header, Meta and Content
// sections.
//
// A document is an optional header bounded by "---" lines, followed by
// alternating meta blocks (inline "<!-- payload -->" or multi-line between
// "<!--" and "-->") and optional content. Tokenize either returns every
// section of the document or a *MalformedDocumentError.
//
// An empty slice of lines yields no sections and no error.
func Tokenize(lines []string) ([]Section, error) {
	t := &tokenizer{state: stateHeaderStart}
	if len(lines) == 0 {
		return []Section{}, nil
	}

	for i, line := range lines {
		if err := t.feed(i+1, line); err != nil {
			return nil, err
		}
	}

	if t.state != stateContent && t.state != stateContentStart {
		return nil, malformed(0, "unexpected end of document (in %s)", t.state)
	}

	return t.sections, nil
}

func (t *tokenizer) feed(lineNumber int, line string) error {
	for i := 0; i < maxRedispatch; i++ {
		redispatch, err := t.step(lineNumber, line)
		if err != nil {
			return err
		}
		if !redispatch {
			return nil
		}
	}
	return malformed(lineNumber, "line was re-dispatched more than %d times", maxRedispatch)
}

func isMetaStart(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), CommentStart)
}

func (t *tokenizer) last() *Section {
	return &t.sections[len(t.sections)-1]
}

// step applies one transition. It returns true when the same line has to be
// fed again under the new state.
func (t *tokenizer) step(lineNumber int, line string) (bool, error) {
	switch t.state {
	case stateHeaderStart:
		if line == YAMLHeader {
			t.sections = append(t.sections, Section{
				Kind:  SectionKindHeader,
				Text:  []string{line},
				Value: []string{},
			})
			t.state = stateHeader
			return false, nil
		}
		t.state = stateMetaStart
		return true, nil

	case stateHeader:
		if line == YAMLHeader {
			t.last().appendText(line)
			t.state = stateHeaderPost
			return false, nil
		}
		t.last().appendLine(line)
		return false, nil

	case stateHeaderPost:
		if isMetaStart(line) {
			t.state = stateMetaStart
			return true, nil
		}
		if strings.TrimSpace(line) != "" {
			return false, malformed(lineNumber, "unexpected content after header")
		}
		// blank separator lines belong to the header
		t.last().appendText(line)
		return false, nil

	case stateMetaStart:
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, CommentStart) {
			return false, malformed(lineNumber, "meta must start with %s", CommentStart)
		}
		rest := strings.TrimSpace(strings.TrimPrefix(trimmed, CommentStart))
		if rest == "" {
			t.sections = append(t.sections, Section{
				Kind:  SectionKindMeta,
				Text:  []string{line},
				Value: []string{},
			})
			t.state = stateMeta
			return false, nil
		}
		if !strings.HasSuffix(rest, CommentEnd) {
			return false, malformed(lineNumber, "inline meta must end with %s", CommentEnd)
		}
		t.sections = append(t.sections, Section{
			Kind:  SectionKindMeta,
			Text:  []string{line},
			Value: []string{strings.TrimSpace(strings.TrimSuffix(rest, CommentEnd))},
		})
		t.state = stateContentStart
		return false, nil

	case stateMeta:
		if line == CommentEnd {
			t.last().appendText(line)
			t.state = stateContentStart
			return false, nil
		}
		if strings.HasSuffix(line, CommentEnd) {
			return false, malformed(lineNumber, "meta ending (%s) must be on its own line", CommentEnd)
		}
		t.last().appendLine(line)
		return false, nil

	case stateContentStart:
		if isMetaStart(line) {
			t.state = stateMetaStart
			return true, nil
		}
		t.sections = append(t.sections, Section{
			Kind:  SectionKindContent,
			Text:  []string{},
			Value: []string{},
		})
		t.state = stateContent
		return true, nil

	case stateContent:
		if isMetaStart(line) {
			t.state = stateMetaStart
			return true, nil
		}
		t.last().appendLine(line)
		return false, nil
	}

	return false, malformed(lineNumber, "unknown tokenizer state %d", int(t.state))
}
