package symbols

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/investifai/investif/internal/apperrors"
)

// Session is one user's search box. Every query takes a sequence number;
// a result whose number is no longer the latest is discarded with
// apperrors.ErrStaleResponse.
type Session struct {
	searcher *Searcher
	delay    time.Duration
	seq      atomic.Uint64
}

// NewSession creates a session whose Debounced calls wait delay before searching.
func NewSession(searcher *Searcher, delay time.Duration) *Session {
	return &Session{searcher: searcher, delay: delay}
}

// Search runs query immediately.
func (s *Session) Search(ctx context.Context, query string) ([]Symbol, error) {
	seq := s.seq.Add(1)
	return s.run(ctx, seq, query)
}

// Debounced waits for the debounce delay and then runs query, unless a newer
// query arrives or ctx is cancelled first.
func (s *Session) Debounced(ctx context.Context, query string) ([]Symbol, error) {
	seq := s.seq.Add(1)

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	if s.seq.Load() != seq {
		return nil, apperrors.ErrStaleResponse
	}
	return s.run(ctx, seq, query)
}

func (s *Session) run(ctx context.Context, seq uint64, query string) ([]Symbol, error) {
	res, err := s.searcher.Search(ctx, query, DefaultLimit)
	if err != nil {
		return nil, err
	}
	if s.seq.Load() != seq {
		return nil, apperrors.ErrStaleResponse
	}
	return res, nil
}
