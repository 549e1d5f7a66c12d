package llm

import "context"

// Stream is a pull-style sequence of summary text chunks. Chunks arrive in
// emission order; concatenating them reproduces the full completion text.
type Stream interface {
	// Next blocks for the next chunk and reports whether one is available.
	Next() bool
	// Current returns the chunk read by the last successful Next.
	Current() string
	// Err returns the terminal error, if any, once the stream is exhausted.
	Err() error
	// Close cancels the producer and releases its resources. Safe to call
	// at any point and more than once.
	Close() error
}

// chunkStream adapts a producer callback into a Stream. The producer runs
// in its own goroutine and is cancelled when the stream is closed or the
// parent context ends.
type chunkStream struct {
	cancel context.CancelFunc
	ch     chan string
	done   chan struct{}
	cur    string
	err    error
	// exhausted is set by the consumer once Next observed the closed
	// channel; from then on err is safe to read directly.
	exhausted bool
}

// newChunkStream starts produce in a goroutine. produce must emit every
// chunk through its emit argument and return the terminal error, nil on
// normal completion.
func newChunkStream(ctx context.Context, produce func(ctx context.Context, emit func(string) error) error) Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &chunkStream{
		cancel: cancel,
		ch:     make(chan string),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		// The error is stored before ch closes; Next observing the closed
		// channel is the synchronization point for readers.
		s.err = produce(ctx, func(text string) error {
			select {
			case s.ch <- text:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		close(s.ch)
	}()

	return s
}

func (s *chunkStream) Next() bool {
	text, ok := <-s.ch
	if !ok {
		s.exhausted = true
		return false
	}
	s.cur = text
	return true
}

func (s *chunkStream) Current() string { return s.cur }

func (s *chunkStream) Err() error {
	// The err write happens-before close(ch), so once Next saw the closed
	// channel the error is visible. Waiting on done here instead would
	// race: ch closes before the deferred close(done) runs.
	if s.exhausted {
		return s.err
	}
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

func (s *chunkStream) Close() error {
	s.cancel()
	<-s.done
	return nil
}

// Collect drains a stream into a single string. Used by tests and by
// callers that do not need incremental output.
func Collect(s Stream) (string, error) {
	defer s.Close()

	var out []byte
	for s.Next() {
		out = append(out, s.Current()...)
	}
	if err := s.Err(); err != nil {
		return "", err
	}
	return string(out), nil
}
