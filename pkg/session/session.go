// Package session keeps the per-client state that links an analyze call to
// the predict, single-predict and download calls that follow it.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"returnrisk/pkg/pipeline"
)

var (
	// ErrNoAnalysis is returned when nothing has been analyzed yet.
	ErrNoAnalysis = errors.New("no data analyzed yet")
	// ErrNoPredictions is returned when no prediction file is available.
	ErrNoPredictions = errors.New("no predictions available")
)

// StateError wraps ErrNoAnalysis or ErrNoPredictions with the operation
// that needed the missing state.
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StateError) Unwrap() error { return e.Err }

// Session holds one client's current analysis, model and export. Each call
// replaces the previous value wholesale.
type Session struct {
	ID string

	lastSeen atomic.Int64 // unix nanoseconds
	mu       sync.Mutex
	analysis *pipeline.Analysis
	result   *pipeline.Result
	export   []byte
}

// Do runs fn with exclusive access to the session, so a training run and a
// prediction on the same session never interleave.
func (s *Session) Do(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &State{s: s}
	return fn(st)
}

// State is the view of a Session handed to Do.
type State struct{ s *Session }

// SetAnalysis installs a new dataset and drops the model and export built
// from the previous one.
func (st *State) SetAnalysis(a *pipeline.Analysis) {
	st.s.analysis = a
	st.s.result = nil
	st.s.export = nil
}

// Analysis returns the current dataset or a *StateError.
func (st *State) Analysis(op string) (*pipeline.Analysis, error) {
	if st.s.analysis == nil {
		return nil, &StateError{Op: op, Err: ErrNoAnalysis}
	}
	return st.s.analysis, nil
}

// SetResult installs the model trained on the current dataset and its export.
func (st *State) SetResult(r *pipeline.Result, export []byte) {
	st.s.result = r
	st.s.export = export
}

// Result returns the last trained model, or nil when predict has not run.
func (st *State) Result() *pipeline.Result { return st.s.result }

// Export returns the last prediction workbook or a *StateError.
func (st *State) Export(op string) ([]byte, error) {
	if st.s.export == nil {
		return nil, &StateError{Op: op, Err: ErrNoPredictions}
	}
	return st.s.export, nil
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

// LastSeen is when the session was last fetched from its Store.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// Store maps session ids to sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session), now: time.Now}
}

// Get returns the session for id, creating a fresh one (with a new id) when
// id is empty or unknown.
func (s *Store) Get(id string) *Session {
	if sess := s.Lookup(id); sess != nil {
		return sess
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok && id != "" {
		sess.touch(s.now())
		return sess
	}
	sess := &Session{ID: uuid.NewString()}
	sess.touch(s.now())
	s.sessions[sess.ID] = sess
	return sess
}

// Lookup returns the session for id without creating one, or nil.
func (s *Store) Lookup(id string) *Session {
	if id == "" {
		return nil
	}
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	sess.touch(s.now())
	return sess
}

// Sweep deletes every session idle for longer than maxIdle and returns how
// many were removed.
func (s *Store) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.LastSeen().Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(maxIdle); n > 0 {
				log.Debug().Int("removed", n).Int("live", s.Len()).Msg("expired idle sessions")
			}
		}
	}
}

// Delete forgets a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
