package queue

import (
	"context"
	"errors"
	"testing"
)

func TestChannelSendReceive(t *testing.T) {
	ch := NewChannel(4)
	ctx := context.Background()

	msg := Message{CandidateID: "cand-1", RequestID: "req-1", Version: 1}
	if err := ch.Send(ctx, msg); err != nil {
		t.Fatalf("send: %v", err)
	}

	got := <-ch.Receive()
	if got.CandidateID != "cand-1" || got.RequestID != "req-1" {
		t.Fatalf("unexpected message: %+v", got)
	}
}

func TestChannelFullBufferRejects(t *testing.T) {
	ch := NewChannel(1)
	ctx := context.Background()

	if err := ch.Send(ctx, Message{CandidateID: "a"}); err != nil {
		t.Fatalf("first send: %v", err)
	}
	err := ch.Send(ctx, Message{CandidateID: "b"})
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestChannelClosedRejectsButKeepsBuffered(t *testing.T) {
	ch := NewChannel(2)
	ctx := context.Background()

	if err := ch.Send(ctx, Message{CandidateID: "a"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	ch.Close()
	ch.Close() // idempotent

	err := ch.Send(ctx, Message{CandidateID: "b"})
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}

	select {
	case got := <-ch.Receive():
		if got.CandidateID != "a" {
			t.Fatalf("unexpected message: %+v", got)
		}
	default:
		t.Fatal("expected buffered message to remain readable after Close")
	}

	select {
	case <-ch.Done():
	default:
		t.Fatal("expected Done to be closed")
	}
}

func TestChannelCancelledContext(t *testing.T) {
	ch := NewChannel(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := ch.Send(ctx, Message{CandidateID: "a"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
