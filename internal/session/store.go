// Package session holds per-upload assessment state. The store is an
// explicit interface with an in-memory implementation; sessions live for the
// process uptime and are lost on restart.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"o1ready/internal/errors"
	"o1ready/internal/types"
)

// Session is one user's in-progress or completed assessment, keyed by an
// opaque identifier.
type Session struct {
	ID         string           `json:"id"`
	Filename   string           `json:"filename"`
	Resume     types.ParsedResume `json:"resume"`
	Assessment types.Assessment `json:"assessment"`

	// Gap interview state. Progress counts questions answered or skipped
	// per criterion; Transcripts holds the per-criterion chat history.
	Progress    map[string]int                 `json:"progress"`
	Transcripts map[string][]types.ChatMessage `json:"transcripts"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is the session store. All mutation goes through Update so
// implementations can serialize concurrent access.
type Store interface {
	Create(filename string, resume types.ParsedResume, assessment types.Assessment) *Session
	Get(id string) (*Session, error)
	Update(id string, mutate func(*Session) error) (*Session, error)
	Count() int
}

// MemoryStore is the in-memory Store implementation, guarded by an RWMutex.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Create stores a new session and returns a copy of it.
func (s *MemoryStore) Create(filename string, resume types.ParsedResume, assessment types.Assessment) *Session {
	now := time.Now()
	sess := &Session{
		ID:          uuid.NewString(),
		Filename:    filename,
		Resume:      resume,
		Assessment:  assessment,
		Progress:    make(map[string]int),
		Transcripts: make(map[string][]types.ChatMessage),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return copySession(sess)
}

// Get returns a copy of the session, so callers can read it without holding
// the store lock.
func (s *MemoryStore) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, notFound(id)
	}
	return copySession(sess), nil
}

// Update applies mutate to the stored session under the write lock and
// returns a copy of the result. If mutate returns an error the session is
// left unchanged.
func (s *MemoryStore) Update(id string, mutate func(*Session) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, notFound(id)
	}

	scratch := copySession(sess)
	if err := mutate(scratch); err != nil {
		return nil, err
	}
	scratch.UpdatedAt = time.Now()
	s.sessions[id] = scratch

	return copySession(scratch), nil
}

// Count returns the number of live sessions.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func notFound(id string) error {
	return errors.NewNotFoundError(
		errors.ErrCodeSessionNotFound,
		fmt.Sprintf("session not found: %s", id),
		nil,
	)
}

// copySession deep-copies the mutable parts of a session.
func copySession(sess *Session) *Session {
	out := *sess

	out.Assessment.Criteria = make([]types.CriterionEvidence, len(sess.Assessment.Criteria))
	copy(out.Assessment.Criteria, sess.Assessment.Criteria)
	for i, c := range out.Assessment.Criteria {
		if c.Evidence != nil {
			evidence := make([]string, len(c.Evidence))
			copy(evidence, c.Evidence)
			out.Assessment.Criteria[i].Evidence = evidence
		}
	}

	out.Progress = make(map[string]int, len(sess.Progress))
	for k, v := range sess.Progress {
		out.Progress[k] = v
	}

	out.Transcripts = make(map[string][]types.ChatMessage, len(sess.Transcripts))
	for k, msgs := range sess.Transcripts {
		copied := make([]types.ChatMessage, len(msgs))
		copy(copied, msgs)
		out.Transcripts[k] = copied
	}

	return &out
}
