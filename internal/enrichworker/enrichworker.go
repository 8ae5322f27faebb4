package enrichworker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"hirehub-backend/internal/applications"
	"hirehub-backend/internal/queue"
)

// Processor runs the enrichment pipeline for one candidate.
type Processor interface {
	ProcessEnrichment(ctx context.Context, candidateID string) error
}

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrMissingCandidateID indicates a message missing the candidate id.
type ErrMissingCandidateID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingCandidateID) Error() string { return "missing candidate id" }

// ErrProcess indicates processing failed after successful parsing.
type ErrProcess struct {
	CandidateID string
	RequestID   string
	Err         error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process enrichment"
	}
	return "process enrichment: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.CandidateID) == "" {
		return msg, meta, ErrMissingCandidateID{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

// HandleMessage parses, validates, and processes a raw message payload.
func HandleMessage(ctx context.Context, proc Processor, body string) error {
	if proc == nil {
		return errors.New("enrichment processor not configured")
	}

	msg, _, err := ParseMessage(body)
	if err != nil {
		return err
	}

	return Process(ctx, proc, msg)
}

// Process runs the pipeline for an already-decoded message.
func Process(ctx context.Context, proc Processor, msg queue.Message) error {
	ctx = applications.WithRequestID(ctx, msg.RequestID)
	if err := proc.ProcessEnrichment(ctx, msg.CandidateID); err != nil {
		return ErrProcess{CandidateID: msg.CandidateID, RequestID: msg.RequestID, Err: err}
	}
	return nil
}
