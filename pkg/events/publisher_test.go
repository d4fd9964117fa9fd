package events

import (
	"encoding/json"
	"testing"

	"github.com/go-go-golems/notegpt/pkg/completion"
	"github.com/go-go-golems/notegpt/pkg/helpers"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	events []Event
}

func (r *recordingSink) PublishEvent(event Event) error {
	r.events = append(r.events, event)
	return nil
}

func types(events []Event) []EventType {
	ret := make([]EventType, 0, len(events))
	for _, e := range events {
		ret = append(ret, e.Type())
	}
	return ret
}

func TestStreamPublisherDeltas(t *testing.T) {
	sink := &recordingSink{}
	p := NewStreamPublisher(sink, "gpt-4")

	require.NoError(t, p.OnDelta(completion.MessageDelta{Role: helpers.Ptr("assistant")}))
	require.NoError(t, p.OnDelta(completion.MessageDelta{Content: helpers.Ptr("Hello")}))
	require.NoError(t, p.OnDelta(completion.MessageDelta{Content: helpers.Ptr(", world")}))
	require.NoError(t, p.Close())

	assert.Equal(t, []EventType{
		EventTypeStart,
		EventTypePartialCompletion,
		EventTypePartialCompletion,
		EventTypeFinal,
	}, types(sink.events))

	start := sink.events[0].(*EventPartialCompletionStart)
	assert.Equal(t, "assistant", start.Metadata().Role)
	assert.Equal(t, "gpt-4", start.Metadata().Model)

	last := sink.events[2].(*EventPartialCompletion)
	assert.Equal(t, ", world", last.Delta)
	assert.Equal(t, "Hello, world", last.Completion)

	final := sink.events[3].(*EventFinal)
	assert.Equal(t, "Hello, world", final.Text)
	assert.Equal(t, start.Metadata().ID, final.Metadata().ID)

	// closing twice publishes nothing more
	require.NoError(t, p.Close())
	assert.Len(t, sink.events, 4)
}

func TestStreamPublisherContentWithoutRole(t *testing.T) {
	sink := &recordingSink{}
	p := NewStreamPublisher(sink, "gpt-4")

	require.NoError(t, p.OnDelta(completion.MessageDelta{Content: helpers.Ptr("Hi")}))
	require.Len(t, sink.events, 2)
	assert.Equal(t, RoleAssistant, sink.events[0].Metadata().Role)
}

func TestStreamPublisherNewRoleFinishesMessage(t *testing.T) {
	sink := &recordingSink{}
	p := NewStreamPublisher(sink, "gpt-4")

	require.NoError(t, p.OnDelta(completion.MessageDelta{Role: helpers.Ptr("assistant"), Content: helpers.Ptr("a")}))
	require.NoError(t, p.OnDelta(completion.MessageDelta{Role: helpers.Ptr("user")}))

	assert.Equal(t, []EventType{
		EventTypeStart,
		EventTypePartialCompletion,
		EventTypeFinal,
		EventTypeStart,
	}, types(sink.events))
	assert.NotEqual(t, sink.events[0].Metadata().ID, sink.events[3].Metadata().ID)
}

func TestStreamPublisherMessage(t *testing.T) {
	sink := &recordingSink{}
	p := NewStreamPublisher(sink, "gpt-4")

	require.NoError(t, p.Message(completion.Message{Content: "done"}))
	require.NoError(t, p.Close())

	assert.Equal(t, []EventType{EventTypeStart, EventTypePartialCompletion, EventTypeFinal}, types(sink.events))
	assert.Equal(t, RoleAssistant, sink.events[0].Metadata().Role)
}

func TestStreamPublisherFail(t *testing.T) {
	sink := &recordingSink{}
	p := NewStreamPublisher(sink, "gpt-4")

	require.NoError(t, p.Fail(errors.New("boom")))
	require.Len(t, sink.events, 1)
	e := sink.events[0].(*EventError)
	assert.Equal(t, "boom", e.ErrorString)

	// no message is open anymore
	require.NoError(t, p.Close())
	assert.Len(t, sink.events, 1)
}

func TestEventJsonRoundTrip(t *testing.T) {
	sink := &recordingSink{}
	p := NewStreamPublisher(sink, "gpt-4")
	require.NoError(t, p.Message(completion.Message{Role: "assistant", Content: "x"}))
	require.NoError(t, p.Close())
	require.NoError(t, p.Fail(errors.New("boom")))

	for _, e := range sink.events {
		b, err := json.Marshal(e)
		require.NoError(t, err)
		decoded, err := NewEventFromJson(b)
		require.NoError(t, err)
		assert.Equal(t, e, decoded)
	}
}

func TestNewEventFromJsonUnknownType(t *testing.T) {
	_, err := NewEventFromJson([]byte(`{"type": "tool-call"}`))
	assert.Error(t, err)

	_, err = NewEventFromJson([]byte(`not json`))
	assert.Error(t, err)
}
