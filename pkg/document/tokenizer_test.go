package document

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleDocument = `---
model: davinci
---

<!-- {role: system}   -->
Hello, system!

<!-- {role: user} -->
<!--
role: assistant
-->
Hello, assistant!
<!-- {role: user} -->
## HEADER

Hello, user!
`

func TestTokenizeExampleDocument(t *testing.T) {
	sections, err := Tokenize(strings.Split(exampleDocument, "\n"))
	require.NoError(t, err)

	expected := []Section{
		{
			Kind:  SectionKindHeader,
			Text:  []string{"---", "model: davinci", "---", ""},
			Value: []string{"model: davinci"},
		},
		{
			Kind:  SectionKindMeta,
			Text:  []string{"<!-- {role: system}   -->"},
			Value: []string{"{role: system}"},
		},
		{
			Kind:  SectionKindContent,
			Text:  []string{"Hello, system!", ""},
			Value: []string{"Hello, system!", ""},
		},
		{
			Kind:  SectionKindMeta,
			Text:  []string{"<!-- {role: user} -->"},
			Value: []string{"{role: user}"},
		},
		{
			Kind:  SectionKindMeta,
			Text:  []string{"<!--", "role: assistant", "-->"},
			Value: []string{"role: assistant"},
		},
		{
			Kind:  SectionKindContent,
			Text:  []string{"Hello, assistant!"},
			Value: []string{"Hello, assistant!"},
		},
		{
			Kind:  SectionKindMeta,
			Text:  []string{"<!-- {role: user} -->"},
			Value: []string{"{role: user}"},
		},
		{
			Kind:  SectionKindContent,
			Text:  []string{"## HEADER", "", "Hello, user!", ""},
			Value: []string{"## HEADER", "", "Hello, user!", ""},
		},
	}
	assert.Equal(t, expected, sections)
}

func TestTokenizeTextIsLossless(t *testing.T) {
	lines := strings.Split(exampleDocument, "\n")
	sections, err := Tokenize(lines)
	require.NoError(t, err)

	var rebuilt []string
	for _, s := range sections {
		rebuilt = append(rebuilt, s.Text...)
	}
	assert.Equal(t, lines, rebuilt)
}

func TestTokenizeWithoutHeader(t *testing.T) {
	sections, err := Tokenize([]string{"<!-- {role: user} -->", "Hello"})
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, SectionKindMeta, sections[0].Kind)
	assert.Equal(t, []string{"{role: user}"}, sections[0].Value)
	assert.Equal(t, SectionKindContent, sections[1].Kind)
	assert.Equal(t, []string{"Hello"}, sections[1].Value)
}

func TestTokenizeEmptyHeader(t *testing.T) {
	sections, err := Tokenize([]string{"---", "---", "<!-- {role: user} -->"})
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, SectionKindHeader, sections[0].Kind)
	assert.Equal(t, []string{}, sections[0].Value)
	assert.Equal(t, []string{"---", "---"}, sections[0].Text)
}

func TestTokenizeAdjacentMetas(t *testing.T) {
	sections, err := Tokenize([]string{
		"<!-- {role: system} -->",
		"<!-- {role: user} -->",
	})
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, SectionKindMeta, sections[0].Kind)
	assert.Equal(t, SectionKindMeta, sections[1].Kind)
}

func TestTokenizeIndentedMetaStart(t *testing.T) {
	sections, err := Tokenize([]string{"  <!-- {role: user} -->", "hi"})
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, []string{"{role: user}"}, sections[0].Value)
	assert.Equal(t, []string{"  <!-- {role: user} -->"}, sections[0].Text)
}

func TestTokenizeEmptyInput(t *testing.T) {
	sections, err := Tokenize(nil)
	require.NoError(t, err)
	assert.Empty(t, sections)

	sections, err = Tokenize([]string{})
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestTokenizeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		line  int
		cause string
	}{
		{
			name:  "content only",
			lines: []string{"Hello", "World"},
			line:  1,
			cause: "meta must start with",
		},
		{
			name:  "single blank line",
			lines: []string{""},
			line:  1,
			cause: "meta must start with",
		},
		{
			name:  "content after header",
			lines: []string{"---", "model: x", "---", "", "oops"},
			line:  5,
			cause: "unexpected content after header",
		},
		{
			name:  "unterminated header",
			lines: []string{"---", "model: x"},
			line:  0,
			cause: "unexpected end of document",
		},
		{
			name:  "header only",
			lines: []string{"---", "model: x", "---"},
			line:  0,
			cause: "unexpected end of document",
		},
		{
			name:  "unterminated block meta",
			lines: []string{"<!--", "role: user"},
			line:  0,
			cause: "unexpected end of document",
		},
		{
			name:  "inline meta without end",
			lines: []string{"<!-- {role: user}"},
			line:  1,
			cause: "inline meta must end with",
		},
		{
			name:  "block meta closed on same line",
			lines: []string{"<!--", "role: user -->"},
			line:  2,
			cause: "must be on its own line",
		},
		{
			name:  "indented block meta end",
			lines: []string{"<!--", "role: user", "  -->", "hi"},
			line:  3,
			cause: "must be on its own line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections, err := Tokenize(tt.lines)
			require.Error(t, err)
			assert.Nil(t, sections)
			assert.True(t, errors.Is(err, ErrMalformedDocument))

			var mde *MalformedDocumentError
			require.True(t, errors.As(err, &mde))
			assert.Equal(t, tt.line, mde.Line)
			assert.Contains(t, mde.Cause, tt.cause)
		})
	}
}

func TestTokenizeContentKeepsCommentEnd(t *testing.T) {
	sections, err := Tokenize([]string{"<!-- {role: user} -->", "a -->", "-->"})
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, []string{"a -->", "-->"}, sections[1].Value)
}

func TestNewInlineMetaSection(t *testing.T) {
	s := NewInlineMetaSection("{role: user}")
	assert.Equal(t, SectionKindMeta, s.Kind)
	assert.Equal(t, []string{"<!-- {role: user} -->"}, s.Text)

	sections, err := Tokenize(s.Text)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, s, sections[0])
}
