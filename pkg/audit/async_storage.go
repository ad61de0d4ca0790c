package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// AsyncOptions configures the batching and buffering behavior.
type AsyncOptions struct {
	BufferSize     int           // Max events queued in memory; further events are dropped
	BatchSize      int           // Target events per batch
	BatchTimeout   time.Duration // Max time to wait for partial batches
	StorageTimeout time.Duration // Per-batch storage timeout
	Logger         *slog.Logger  // Receives batch write failures; nil discards them
}

// AsyncWriter queues events and writes them in batches from a background
// goroutine. Store never waits for I/O, so a slow or broken audit sink cannot
// delay a response.
type AsyncWriter struct {
	batchWriter batchWriter
	eventChan   chan Event
	done        chan struct{}
	closeOnce   sync.Once
	wg          sync.WaitGroup
	options     AsyncOptions
}

// NewAsyncWriter creates an async writer over bw and starts its worker.
// The returned function flushes pending events and stops the worker.
func NewAsyncWriter(bw batchWriter, opts AsyncOptions) (*AsyncWriter, func(context.Context) error) {
	if bw == nil {
		panic("audit: batch writer cannot be nil")
	}

	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 100 * time.Millisecond
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}

	aw := &AsyncWriter{
		batchWriter: bw,
		eventChan:   make(chan Event, opts.BufferSize),
		done:        make(chan struct{}),
		options:     opts,
	}

	aw.wg.Add(1)
	go aw.worker()

	return aw, aw.Close
}

// Store queues the event. It returns ErrBufferFull instead of blocking when
// the queue is full and ErrStorageNotAvailable after Close.
func (aw *AsyncWriter) Store(_ context.Context, event Event) error {
	select {
	case <-aw.done:
		return ErrStorageNotAvailable
	default:
	}

	select {
	case aw.eventChan <- event:
		return nil
	default:
		return ErrBufferFull
	}
}

func (aw *AsyncWriter) worker() {
	defer aw.wg.Done()

	batch := make([]Event, 0, aw.options.BatchSize)
	ticker := time.NewTicker(aw.options.BatchTimeout)
	defer ticker.Stop()

	// Storage runs on its own context so request cancellation never drops events.
	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), aw.options.StorageTimeout)
		defer cancel()

		if err := aw.batchWriter.StoreBatch(ctx, batch); err != nil && aw.options.Logger != nil {
			aw.options.Logger.Warn("audit batch write failed",
				slog.Int("events", len(batch)),
				slog.String("error", err.Error()),
			)
		}

		clear(batch)
		batch = batch[:0]
	}

	for {
		select {
		case e := <-aw.eventChan:
			batch = append(batch, e)
			if len(batch) >= aw.options.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-aw.done:
			// Drain what is already queued; Store refuses new events once done is closed.
			for {
				select {
				case e := <-aw.eventChan:
					batch = append(batch, e)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close flushes queued events and stops the worker. The context bounds the
// wait; when it expires some events may remain unwritten.
func (aw *AsyncWriter) Close(ctx context.Context) error {
	aw.closeOnce.Do(func() { close(aw.done) })

	finished := make(chan struct{})
	go func() {
		aw.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
