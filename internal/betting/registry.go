package betting

import (
	"errors"
	"sync"
)

// ErrDuplicateSession is returned when a stat display already has a live
// session attached.
var ErrDuplicateSession = errors.New("a session is already active for this display")

// Registry owns every live session, keyed by the originating message id.
// A session leaves the registry the moment it reaches a terminal state.
type Registry struct {
	mu        sync.Mutex
	byMessage map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{byMessage: make(map[string]*Session)}
}

func (r *Registry) Add(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byMessage[s.MessageID]; exists {
		return ErrDuplicateSession
	}
	r.byMessage[s.MessageID] = s
	return nil
}

func (r *Registry) Get(messageID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byMessage[messageID]
}

func (r *Registry) Remove(messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byMessage, messageID)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byMessage)
}
