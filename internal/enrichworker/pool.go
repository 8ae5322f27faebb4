package enrichworker

import (
	"context"
	"sync"

	"hirehub-backend/internal/queue"
	"hirehub-backend/internal/shared/telemetry"
)

// Pool consumes the in-process queue with a fixed number of goroutines.
// It replaces detached per-request goroutines: concurrency is bounded by
// the worker count and backpressure by the queue buffer.
type Pool struct {
	Queue       *queue.Channel
	Processor   Processor
	Concurrency int

	wg sync.WaitGroup
}

// Start launches the workers. They run until Stop is called and the queue
// buffer is drained. Processing is detached from ctx's cancellation: the
// shutdown signal must not abort accepted enrichment work, so workers exit
// only through the queue's close signal.
func (p *Pool) Start(ctx context.Context) {
	n := p.Concurrency
	if n <= 0 {
		n = 1
	}
	telemetry.Info("enrichworker.start", map[string]any{
		"concurrency": n,
	})
	detached := context.WithoutCancel(ctx)
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.run(detached, i)
	}
}

// Stop closes the queue to new messages and waits for workers to finish
// the buffered ones.
func (p *Pool) Stop() {
	p.Queue.Close()
	p.wg.Wait()
	telemetry.Info("enrichworker.stop", nil)
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case msg := <-p.Queue.Receive():
			p.handle(ctx, id, msg)
		case <-p.Queue.Done():
			p.drain(ctx, id)
			return
		}
	}
}

// drain empties what is left in the buffer after shutdown began.
func (p *Pool) drain(ctx context.Context, id int) {
	for {
		select {
		case msg := <-p.Queue.Receive():
			p.handle(ctx, id, msg)
		default:
			return
		}
	}
}

func (p *Pool) handle(ctx context.Context, id int, msg queue.Message) {
	if err := Process(ctx, p.Processor, msg); err != nil {
		telemetry.Error("enrichworker.process.failed", map[string]any{
			"worker":       id,
			"candidate_id": msg.CandidateID,
			"request_id":   msg.RequestID,
			"error":        err.Error(),
		})
	}
}
