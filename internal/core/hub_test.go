package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestHubJoinBroadcastAndLeave(t *testing.T) {
	hub := NewHub(Options{DisconnectOnLeave: true}, nil)

	alice := hub.Admit()
	bob := hub.Admit()

	if err := hub.Join(alice.ID, "R1"); err != nil {
		t.Fatalf("alice join: %v", err)
	}
	if err := hub.Join(bob.ID, "R1"); err != nil {
		t.Fatalf("bob join: %v", err)
	}

	if n := hub.Broadcast("R1", TemperatureEvent(21.5)); n != 2 {
		t.Fatalf("expected 2 recipients, got %d", n)
	}
	ev := mustEvent(t, bob.Events, EventTemperature)
	if ev.Value != 21.5 || ev.Room != "R1" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	mustEvent(t, alice.Events, EventTemperature)

	// Alice leaves; her session is terminated and later broadcasts skip her.
	if err := hub.Leave(alice.ID, "R1"); err != nil {
		t.Fatalf("alice leave: %v", err)
	}
	mustEvent(t, alice.Events, EventLeft)
	select {
	case <-alice.Done():
	case <-time.After(time.Second):
		t.Fatal("expected alice session to be terminated")
	}
	if reason := alice.CloseReason(); reason != "left room R1" {
		t.Fatalf("unexpected close reason %q", reason)
	}

	if n := hub.Broadcast("R1", HumidityEvent(40)); n != 1 {
		t.Fatalf("expected only bob, got %d recipients", n)
	}
	mustNoEvent(t, alice.Events)
}

func TestHubLeaveLastMemberRemovesRoom(t *testing.T) {
	hub := NewHub(Options{DisconnectOnLeave: true}, nil)

	alice := hub.Admit()
	if err := hub.Join(alice.ID, "R1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := hub.Leave(alice.ID, "R1"); err != nil {
		t.Fatalf("leave: %v", err)
	}

	if n := hub.Broadcast("R1", HumidityEvent(40)); n != 0 {
		t.Fatalf("expected nobody in R1, got %d", n)
	}
	if rooms, _ := hub.Stats(); rooms != 0 {
		t.Fatalf("expected empty room to be removed, got %d rooms", rooms)
	}
}

func TestHubLeaveKeepsSessionWhenConfigured(t *testing.T) {
	hub := NewHub(Options{DisconnectOnLeave: false}, nil)

	alice := hub.Admit()
	_ = hub.Join(alice.ID, "R1")
	_ = hub.Join(alice.ID, "R2")

	if err := hub.Leave(alice.ID, "R1"); err != nil {
		t.Fatalf("leave: %v", err)
	}

	select {
	case <-alice.Done():
		t.Fatal("session must stay open")
	default:
	}
	rooms, err := hub.RoomsOf(alice.ID)
	if err != nil {
		t.Fatalf("rooms of: %v", err)
	}
	if len(rooms) != 1 || rooms[0] != "R2" {
		t.Fatalf("unexpected rooms: %v", rooms)
	}
}

func TestHubDoubleJoinIsIdempotent(t *testing.T) {
	hub := NewHub(Options{}, nil)

	alice := hub.Admit()
	if err := hub.Join(alice.ID, "general"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if err := hub.Join(alice.ID, "general"); err != nil {
		t.Fatalf("second join: %v", err)
	}

	if members := hub.Members("general"); len(members) != 1 {
		t.Fatalf("expected 1 member, got %v", members)
	}
}

func TestHubLeaveUnknownRoomIsNoop(t *testing.T) {
	hub := NewHub(Options{DisconnectOnLeave: true}, nil)

	alice := hub.Admit()
	if err := hub.Leave(alice.ID, "ghost"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	select {
	case <-alice.Done():
		t.Fatal("leaving a room never joined must not terminate the session")
	default:
	}
	mustNoEvent(t, alice.Events)
}

func TestHubUnknownConnection(t *testing.T) {
	hub := NewHub(Options{}, nil)

	if err := hub.Join("nope", "R1"); !errors.Is(err, ErrUnknownConnection) {
		t.Fatalf("expected ErrUnknownConnection on join, got %v", err)
	}
	if err := hub.Leave("nope", "R1"); !errors.Is(err, ErrUnknownConnection) {
		t.Fatalf("expected ErrUnknownConnection on leave, got %v", err)
	}

	alice := hub.Admit()
	hub.Retire(alice.ID)
	if err := hub.Join(alice.ID, "R1"); !errors.Is(err, ErrUnknownConnection) {
		t.Fatalf("expected ErrUnknownConnection after retire, got %v", err)
	}
}

func TestHubRetireClearsMembership(t *testing.T) {
	hub := NewHub(Options{}, nil)

	alice := hub.Admit()
	bob := hub.Admit()
	for _, room := range []string{"R1", "R2", "R3"} {
		_ = hub.Join(alice.ID, room)
	}
	_ = hub.Join(bob.ID, "R2")
	_ = hub.Leave(alice.ID, "R3")

	hub.Retire(alice.ID)
	hub.Retire(alice.ID) // idempotent

	for _, room := range []string{"R1", "R2", "R3"} {
		for _, id := range hub.Members(room) {
			if id == alice.ID {
				t.Fatalf("retired client still member of %s", room)
			}
		}
	}
	if rooms, clients := hub.Stats(); rooms != 1 || clients != 1 {
		t.Fatalf("unexpected stats rooms=%d clients=%d", rooms, clients)
	}
	if _, err := hub.RoomsOf(alice.ID); !errors.Is(err, ErrUnknownConnection) {
		t.Fatalf("expected retired client to be unknown, got %v", err)
	}
	select {
	case <-alice.Done():
	default:
		t.Fatal("retired client must be closed")
	}
}

func TestHubBroadcastGlobal(t *testing.T) {
	hub := NewHub(Options{}, nil)

	alice := hub.Admit()
	bob := hub.Admit()
	lurker := hub.Admit()
	_ = hub.Join(alice.ID, "R1")
	_ = hub.Join(bob.ID, "R1")

	if n := hub.BroadcastGlobal(TemperatureEvent(21.5)); n != 3 {
		t.Fatalf("expected 3 recipients, got %d", n)
	}
	for _, c := range []*Client{alice, bob, lurker} {
		ev := mustEvent(t, c.Events, EventTemperature)
		if ev.Value != 21.5 {
			t.Fatalf("unexpected payload: %+v", ev)
		}
	}
}

func TestHubBroadcastDropsUnreachableMembers(t *testing.T) {
	hub := NewHub(Options{ClientBuffer: 1}, nil)

	slow := hub.Admit()
	fast := hub.Admit()
	_ = hub.Join(slow.ID, "R1")
	_ = hub.Join(fast.ID, "R1")

	hub.Broadcast("R1", HumidityEvent(1))
	drain(fast.Events)

	// slow's queue is full now, so it is dropped from the room.
	if n := hub.Broadcast("R1", HumidityEvent(2)); n != 1 {
		t.Fatalf("expected 1 recipient, got %d", n)
	}
	members := hub.Members("R1")
	if len(members) != 1 || members[0] != fast.ID {
		t.Fatalf("expected only fast to remain, got %v", members)
	}
	// Dropping from the room does not retire the connection.
	if _, err := hub.RoomsOf(slow.ID); err != nil {
		t.Fatalf("slow should still be admitted: %v", err)
	}
}

func TestHubBroadcastSnapshotUnderConcurrentJoins(t *testing.T) {
	hub := NewHub(Options{ClientBuffer: 256}, nil)

	existing := make([]*Client, 0, 10)
	for range 10 {
		c := hub.Admit()
		_ = hub.Join(c.ID, "R1")
		existing = append(existing, c)
	}

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := hub.Admit()
			_ = hub.Join(c.ID, "R1")
		}()
	}

	n := hub.Broadcast("R1", LightIntensityEvent(300))
	wg.Wait()

	if n < len(existing) {
		t.Fatalf("broadcast missed existing members: %d < %d", n, len(existing))
	}
	for _, c := range existing {
		mustEvent(t, c.Events, EventLightIntensity)
	}
}

func TestHubConcurrentJoinLeave(t *testing.T) {
	hub := NewHub(Options{}, nil)

	clients := make([]*Client, 50)
	for i := range clients {
		clients[i] = hub.Admit()
	}

	var wg sync.WaitGroup
	for i, c := range clients {
		wg.Add(1)
		go func(i int, c *Client) {
			defer wg.Done()
			room := fmt.Sprintf("R%d", i%3)
			_ = hub.Join(c.ID, room)
			if i%2 == 0 {
				_ = hub.Leave(c.ID, room)
			}
		}(i, c)
	}
	wg.Wait()

	total := 0
	for r := range 3 {
		total += len(hub.Members(fmt.Sprintf("R%d", r)))
	}
	if total != 25 {
		t.Fatalf("expected 25 remaining members, got %d", total)
	}
}

func TestHubRunClosesClientsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(Options{}, nil)

	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	alice := hub.Admit()
	_ = hub.Join(alice.ID, "R1")
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	select {
	case <-alice.Done():
	default:
		t.Fatal("client must be closed on shutdown")
	}
	if rooms, clients := hub.Stats(); rooms != 0 || clients != 0 {
		t.Fatalf("expected empty hub, got rooms=%d clients=%d", rooms, clients)
	}
}

func TestHubDispatch(t *testing.T) {
	hub := NewHub(Options{}, nil)
	alice := hub.Admit()

	if err := hub.Dispatch(alice, &Command{Kind: CommandJoinRoom, Room: "R1"}); err != nil {
		t.Fatalf("dispatch join: %v", err)
	}
	ev := mustEvent(t, alice.Events, EventJoined)
	if ev.Room != "R1" {
		t.Fatalf("unexpected join ack: %+v", ev)
	}

	if err := hub.Dispatch(alice, &Command{Kind: CommandKind(99)}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}
