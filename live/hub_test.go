package live

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerClient(t *testing.T, hub *Hub, room string) *Client {
	t.Helper()
	client := &Client{Hub: hub, Send: make(chan []byte, 8), Room: room}
	hub.Register <- client
	return client
}

func receive(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case raw := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(raw, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return Event{}
	}
}

func TestBroadcastToRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	roomA := TournamentRoom(1)
	first := registerClient(t, hub, roomA)
	second := registerClient(t, hub, roomA)
	other := registerClient(t, hub, TournamentRoom(2))

	hub.BroadcastToRoom(roomA, Event{Type: EventRosterUpdated, Payload: map[string]int{"participant_id": 5}})

	for _, client := range []*Client{first, second} {
		event := receive(t, client)
		assert.Equal(t, EventRosterUpdated, event.Type)
		assert.Equal(t, roomA, event.RoomID)
	}

	select {
	case <-other.Send:
		t.Fatal("event leaked into another room")
	default:
	}
}

func TestBroadcastToEmptyRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// No clients registered; must not panic or block.
	hub.BroadcastToRoom(TournamentRoom(99), Event{Type: EventInviteCreated})
}

func TestSlowClientIsSkipped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	room := TournamentRoom(3)
	slow := &Client{Hub: hub, Send: make(chan []byte), Room: room}
	hub.Register <- slow
	healthy := registerClient(t, hub, room)

	done := make(chan struct{})
	go func() {
		hub.BroadcastToRoom(room, Event{Type: EventParticipantAdded})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}
	assert.Equal(t, EventParticipantAdded, receive(t, healthy).Type)
}

func TestUnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := registerClient(t, hub, TournamentRoom(4))
	hub.Unregister <- client

	select {
	case _, open := <-client.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}
