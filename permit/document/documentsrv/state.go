package documentsrv

import (
	"sync"

	"github.com/kabalen/permitdocs/permit/document"
)

// stateStore tracks the live state of every (application, category) slot.
// One slot runs at most one verification at a time; tryStartVerifying is the
// admission gate for concurrent requests on the same slot.
type stateStore struct {
	mu    sync.Mutex
	slots map[string]document.State
}

func newStateStore() *stateStore {
	return &stateStore{slots: make(map[string]document.State)}
}

func (s *stateStore) get(key string) document.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.slots[key]
	if !ok {
		return document.State{Status: document.StatusIdle}
	}
	return state
}

// tryStartVerifying claims the slot for a new attempt. It fails only when a
// verification is already running; terminal states are replaced, a re-upload
// discards the previous outcome.
func (s *stateStore) tryStartVerifying(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.slots[key]; ok && state.IsVerifying {
		return false
	}
	s.slots[key] = document.State{
		Status:      document.StatusVerifying,
		IsVerifying: true,
		Progress:    0,
	}
	return true
}

func (s *stateStore) setProgress(key string, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.slots[key]
	if !ok || !state.IsVerifying {
		return
	}
	if progress > state.Progress {
		state.Progress = progress
		s.slots[key] = state
	}
}

func (s *stateStore) finishVerified(key string, verdict *document.Verdict) {
	s.finish(key, document.State{
		Status:     document.StatusVerified,
		IsVerified: true,
		Results:    verdict,
		Progress:   progressDone,
	})
}

func (s *stateStore) finishRejected(key string, verdict *document.Verdict) {
	s.finish(key, document.State{
		Status:   document.StatusRejected,
		Results:  verdict,
		Progress: progressDone,
	})
}

func (s *stateStore) finishErrored(key string, message string) {
	s.finish(key, document.State{
		Status:   document.StatusErrored,
		Error:    message,
		Progress: progressDone,
	})
}

func (s *stateStore) finish(key string, state document.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = state
}
