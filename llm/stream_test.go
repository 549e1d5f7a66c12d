package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestChunkStreamOrder(t *testing.T) {
	chunks := []string{"The ", "quick ", "brown ", "fox"}
	s := newChunkStream(context.Background(), func(ctx context.Context, emit func(string) error) error {
		for _, c := range chunks {
			if err := emit(c); err != nil {
				return err
			}
		}
		return nil
	})

	var got []string
	for s.Next() {
		got = append(got, s.Current())
	}
	if err := s.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(chunks) {
		t.Fatalf("got %d chunks, want %d", len(got), len(chunks))
	}
	for i := range chunks {
		if got[i] != chunks[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], chunks[i])
		}
	}
}

func TestCollectConcatenates(t *testing.T) {
	s := newChunkStream(context.Background(), func(ctx context.Context, emit func(string) error) error {
		for _, c := range []string{"a", "b", "c"} {
			if err := emit(c); err != nil {
				return err
			}
		}
		return nil
	})

	out, err := Collect(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "abc" {
		t.Errorf("got %q, want %q", out, "abc")
	}
}

func TestChunkStreamError(t *testing.T) {
	boom := errors.New("boom")
	s := newChunkStream(context.Background(), func(ctx context.Context, emit func(string) error) error {
		if err := emit("partial"); err != nil {
			return err
		}
		return boom
	})

	if !s.Next() {
		t.Fatal("expected the partial chunk")
	}
	if s.Next() {
		t.Fatal("expected stream to end after the error")
	}
	if !errors.Is(s.Err(), boom) {
		t.Errorf("got %v, want %v", s.Err(), boom)
	}
}

func TestChunkStreamErrVisibleRightAfterExhaustion(t *testing.T) {
	boom := errors.New("boom")
	// The terminal error must be readable the moment Next reports the end,
	// not only after the producer goroutine fully unwinds. Loop to give a
	// lost write a chance to show up.
	for i := 0; i < 10000; i++ {
		s := newChunkStream(context.Background(), func(ctx context.Context, emit func(string) error) error {
			return boom
		})
		if s.Next() {
			t.Fatal("expected no chunks")
		}
		if !errors.Is(s.Err(), boom) {
			t.Fatalf("iteration %d: terminal error lost after exhaustion", i)
		}
		s.Close()
	}
}

func TestChunkStreamCloseCancelsProducer(t *testing.T) {
	started := make(chan struct{})
	s := newChunkStream(context.Background(), func(ctx context.Context, emit func(string) error) error {
		close(started)
		// Blocks forever unless cancellation frees it.
		return emit("never read")
	})

	<-started
	done := make(chan struct{})
	go func() {
		s.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not unblock the producer")
	}
}

func TestChunkStreamErrNilBeforeDone(t *testing.T) {
	release := make(chan struct{})
	s := newChunkStream(context.Background(), func(ctx context.Context, emit func(string) error) error {
		<-release
		return nil
	})

	if err := s.Err(); err != nil {
		t.Errorf("expected nil error while producing, got %v", err)
	}
	close(release)
	s.Close()
}
