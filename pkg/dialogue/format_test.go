package dialogue

import (
	"testing"

	"github.com/go-go-golems/notegpt/pkg/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMessage(t *testing.T) {
	lines := FormatMessage(Message{
		Options: MessageOptions{Role: "user"},
		Content: helpers.Ptr("Hello\nWorld"),
	})
	assert.Equal(t, []string{"<!-- {role: user} -->", "Hello", "World"}, lines)
}

func TestFormatMessageWithoutContent(t *testing.T) {
	lines := FormatMessage(Message{Options: MessageOptions{Role: "assistant"}})
	assert.Equal(t, []string{"<!-- {role: assistant} -->"}, lines)
}

func TestFormatMessageEmptyContent(t *testing.T) {
	lines := FormatMessage(Message{
		Options: MessageOptions{Role: "user"},
		Content: helpers.Ptr(""),
	})
	assert.Equal(t, []string{"<!-- {role: user} -->", ""}, lines)
}

func TestFormatMessageQuotesRoles(t *testing.T) {
	for _, role := range []string{"true", "123", "a: b", "x}", "a, b", "", "with\nnewline", "#hash"} {
		t.Run(role, func(t *testing.T) {
			m := Message{Options: MessageOptions{Role: role}, Content: helpers.Ptr("hi")}
			d, err := Parse(FormatMessage(m), BaseOptions{Model: "gpt-4"})
			require.NoError(t, err)
			require.Len(t, d.Messages, 1)
			assert.Equal(t, m, d.Messages[0])
		})
	}
}

func TestFormatMessageRoundTrip(t *testing.T) {
	tests := []struct {
		name              string
		message           Message
		skipMessageHeader bool
	}{
		{name: "simple", message: Message{Options: MessageOptions{Role: "user"}, Content: helpers.Ptr("Hello")}},
		{name: "absent content", message: Message{Options: MessageOptions{Role: "user"}}},
		{name: "empty content", message: Message{Options: MessageOptions{Role: "user"}, Content: helpers.Ptr("")}},
		{name: "multi line", message: Message{Options: MessageOptions{Role: "assistant"}, Content: helpers.Ptr("a\n\n## b\nc\n")}},
		{name: "leading blank", message: Message{Options: MessageOptions{Role: "assistant"}, Content: helpers.Ptr("\nanswer")}},
		{name: "comment end in content", message: Message{Options: MessageOptions{Role: "user"}, Content: helpers.Ptr("a -->\n-->")}},
		{
			name:              "skipping headers, stripped content",
			message:           Message{Options: MessageOptions{Role: "user"}, Content: helpers.Ptr("Hello\n\n## kept")},
			skipMessageHeader: true,
		},
		{
			name:              "skipping headers, empty content",
			message:           Message{Options: MessageOptions{Role: "user"}, Content: helpers.Ptr("")},
			skipMessageHeader: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(FormatMessage(tt.message), BaseOptions{
				Model:             "gpt-4",
				SkipMessageHeader: tt.skipMessageHeader,
			})
			require.NoError(t, err)
			require.Len(t, d.Messages, 1)
			assert.Equal(t, tt.message, d.Messages[0])
		})
	}
}

func TestFormatSystemMessageRoundTrip(t *testing.T) {
	m := Message{Options: MessageOptions{Role: "system"}, Content: helpers.Ptr("Be brief.")}
	d, err := Parse(FormatMessage(m), BaseOptions{Model: "gpt-4"})
	require.NoError(t, err)
	require.NotNil(t, d.System)
	assert.Equal(t, m, *d.System)
	assert.Empty(t, d.Messages)
}

func TestNewMessage(t *testing.T) {
	m := NewMessage("user", "", true)
	assert.Equal(t, "## User\n\n", *m.Content)
	assert.Equal(t, []string{"<!-- {role: user} -->", "## User", "", ""}, FormatMessage(m))

	m = NewMessage("assistant", "hi", false)
	assert.Equal(t, "\nhi", *m.Content)
	assert.Equal(t, "assistant", m.Options.Role)
}

func TestMessageHeading(t *testing.T) {
	assert.Equal(t, "## System", MessageHeading("system"))
	assert.Equal(t, "## Assistant", MessageHeading("assistant"))
	assert.Equal(t, "## My_role", MessageHeading("my_role"))
	assert.Equal(t, "## Tool-call", MessageHeading("tool-call"))
	assert.Equal(t, "## Élève", MessageHeading("élève"))
	assert.Equal(t, "## ", MessageHeading(""))
}
