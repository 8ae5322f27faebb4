package enrichworker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"hirehub-backend/internal/applications"
	"hirehub-backend/internal/queue"
)

type recordingProcessor struct {
	ids        chan string
	requestIDs chan string
	ctxErrs    chan error
	err        error
}

func newRecordingProcessor(capacity int) *recordingProcessor {
	return &recordingProcessor{
		ids:        make(chan string, capacity),
		requestIDs: make(chan string, capacity),
		ctxErrs:    make(chan error, capacity),
	}
}

func (r *recordingProcessor) ProcessEnrichment(ctx context.Context, candidateID string) error {
	r.ids <- candidateID
	r.requestIDs <- applications.RequestIDFromContext(ctx)
	r.ctxErrs <- ctx.Err()
	return r.err
}

func TestParseMessage(t *testing.T) {
	payload, _ := queue.EncodeMessage(queue.Message{CandidateID: "cand-1", RequestID: "req-1", Version: 1})

	msg, meta, err := ParseMessage(string(payload))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if msg.CandidateID != "cand-1" || msg.RequestID != "req-1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if meta.BodyLen != len(payload) || meta.BodySHA == "" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestParseMessageErrors(t *testing.T) {
	if _, _, err := ParseMessage(""); !errors.As(err, &ErrEmptyBody{}) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
	if _, _, err := ParseMessage("{broken"); !errors.As(err, &ErrDecode{}) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	payload, _ := queue.EncodeMessage(queue.Message{RequestID: "req-1"})
	if _, _, err := ParseMessage(string(payload)); !errors.As(err, &ErrMissingCandidateID{}) {
		t.Fatalf("expected ErrMissingCandidateID, got %v", err)
	}
}

func TestHandleMessagePropagatesRequestID(t *testing.T) {
	proc := newRecordingProcessor(1)
	payload, _ := queue.EncodeMessage(queue.Message{CandidateID: "cand-1", RequestID: "req-9"})

	if err := HandleMessage(context.Background(), proc, string(payload)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := <-proc.requestIDs; got != "req-9" {
		t.Fatalf("expected request id on context, got %q", got)
	}
}

func TestHandleMessageWrapsProcessFaults(t *testing.T) {
	proc := newRecordingProcessor(1)
	proc.err = errors.New("store down")
	payload, _ := queue.EncodeMessage(queue.Message{CandidateID: "cand-1", RequestID: "req-1"})

	err := HandleMessage(context.Background(), proc, string(payload))
	var procErr ErrProcess
	if !errors.As(err, &procErr) {
		t.Fatalf("expected ErrProcess, got %v", err)
	}
	if procErr.CandidateID != "cand-1" {
		t.Fatalf("unexpected candidate id: %s", procErr.CandidateID)
	}
}

func TestPoolProcessesAndDrains(t *testing.T) {
	const total = 8
	ch := queue.NewChannel(total)
	proc := newRecordingProcessor(total)

	for i := 0; i < total; i++ {
		if err := ch.Send(context.Background(), queue.Message{CandidateID: string(rune('a' + i))}); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	pool := &Pool{Queue: ch, Processor: proc, Concurrency: 3}
	pool.Start(context.Background())
	pool.Stop()

	seen := map[string]bool{}
	for i := 0; i < total; i++ {
		select {
		case id := <-proc.ids:
			seen[id] = true
		default:
			t.Fatalf("expected %d processed messages, got %d", total, i)
		}
	}
	if len(seen) != total {
		t.Fatalf("expected %d distinct candidates, got %d", total, len(seen))
	}
}

func TestPoolDrainsAfterStartContextCancelled(t *testing.T) {
	const total = 16
	ch := queue.NewChannel(total)
	proc := newRecordingProcessor(total)

	for i := 0; i < total; i++ {
		if err := ch.Send(context.Background(), queue.Message{CandidateID: fmt.Sprintf("cand-%d", i)}); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	// The server's signal context is cancelled on SIGTERM before Stop runs.
	ctx, cancel := context.WithCancel(context.Background())
	pool := &Pool{Queue: ch, Processor: proc, Concurrency: 2}
	pool.Start(ctx)
	cancel()
	pool.Stop()

	for i := 0; i < total; i++ {
		select {
		case <-proc.ids:
		default:
			t.Fatalf("shutdown must drain accepted messages, processed %d of %d", i, total)
		}
	}
	for i := 0; i < total; i++ {
		if err := <-proc.ctxErrs; err != nil {
			t.Fatalf("processing context must survive the shutdown signal, got %v", err)
		}
	}
}

func TestPoolStopWithoutMessages(t *testing.T) {
	ch := queue.NewChannel(1)
	pool := &Pool{Queue: ch, Processor: newRecordingProcessor(1), Concurrency: 2}
	pool.Start(context.Background())
	pool.Stop()
}
