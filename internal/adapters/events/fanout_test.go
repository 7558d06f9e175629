package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navina/travelguide/internal/domain/entities"
)

func appended(id string) *entities.ConversationEvent {
	return entities.NewMessageAppendedEvent(id, "conv-1", entities.Message{ID: "m-" + id, Sender: entities.SenderUser, Content: "hello"})
}

func TestFanout_BroadcastReachesEverySubscriber(t *testing.T) {
	f := newFanout()
	first, n := f.add("conversation:conv-1")
	assert.Equal(t, 1, n)
	second, n := f.add("conversation:conv-1")
	assert.Equal(t, 2, n)
	other, _ := f.add("conversation:conv-2")

	delivered, dropped := f.broadcast("conversation:conv-1", appended("e1"))
	assert.Equal(t, 2, delivered)
	assert.Zero(t, dropped)

	assert.Equal(t, "e1", (<-first).ID)
	assert.Equal(t, "e1", (<-second).ID)
	assert.Empty(t, other)
}

func TestFanout_BroadcastWithoutSubscribers(t *testing.T) {
	delivered, dropped := newFanout().broadcast("conversation:nobody", appended("e1"))
	assert.Zero(t, delivered)
	assert.Zero(t, dropped)
}

func TestFanout_FullBufferDropsOnlyForSlowSubscriber(t *testing.T) {
	f := newFanout()
	slow, _ := f.add("conversation:conv-1")
	for i := 0; i < subscriberBuffer; i++ {
		f.broadcast("conversation:conv-1", appended("fill"))
	}
	fast, _ := f.add("conversation:conv-1")

	delivered, dropped := f.broadcast("conversation:conv-1", appended("late"))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, dropped)
	assert.Len(t, slow, subscriberBuffer)
	assert.Equal(t, "late", (<-fast).ID)
}

func TestFanout_RemoveClosesAndReportsEmpty(t *testing.T) {
	f := newFanout()
	first, _ := f.add("conversation:conv-1")
	second, _ := f.add("conversation:conv-1")

	assert.False(t, f.remove("conversation:conv-1", first))
	_, open := <-first
	assert.False(t, open)
	assert.Equal(t, 1, f.count("conversation:conv-1"))

	// a second remove of the same subscriber must not close it twice
	assert.False(t, f.remove("conversation:conv-1", first))

	assert.True(t, f.remove("conversation:conv-1", second))
	assert.Zero(t, f.count("conversation:conv-1"))

	assert.False(t, f.remove("conversation:unknown", second))
}

func TestFanout_CloseChannel(t *testing.T) {
	f := newFanout()
	first, _ := f.add("conversation:conv-1")
	second, _ := f.add("conversation:conv-1")

	f.closeChannel("conversation:conv-1")

	_, open := <-first
	assert.False(t, open)
	_, open = <-second
	assert.False(t, open)
	assert.Zero(t, f.count("conversation:conv-1"))
	assert.False(t, f.remove("conversation:conv-1", first))
}

func TestDecodeEvent(t *testing.T) {
	event, err := decodeEvent(`{"id":"e1","conversation_id":"conv-1","event_type":"message_appended","message":{"id":"m1","sender":"system","content":"hi"}}`)
	require.NoError(t, err)
	assert.Equal(t, "conv-1", event.ConversationID)
	assert.Equal(t, entities.ConversationEventMessageAppended, event.EventType)
	assert.Equal(t, entities.SenderSystem, event.Message.Sender)

	_, err = decodeEvent("not json")
	assert.Error(t, err)
}
