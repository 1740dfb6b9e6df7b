// Package session tracks open documents and their highlight lists.
package session

import (
	"sync"
	"time"

	"github.com/dgallion1/pdfmark/internal/highlight"
	"github.com/dgallion1/pdfmark/internal/pdfdoc"
)

// Session is one opened document. The document is fixed for the life of the
// session; opening another document creates a new session.
type Session struct {
	ID         string
	SourceURL  string // empty for uploads
	Filename   string
	Doc        *pdfdoc.Document
	Highlights *highlight.Store

	CreatedAt time.Time

	mu        sync.Mutex
	touchedAt time.Time
}

func New(doc *pdfdoc.Document, sourceURL, filename string, initial []highlight.Highlight) *Session {
	now := time.Now()
	return &Session{
		ID:         highlight.NewID(),
		SourceURL:  sourceURL,
		Filename:   filename,
		Doc:        doc,
		Highlights: highlight.NewStore(initial),
		CreatedAt:  now,
		touchedAt:  now,
	}
}

// Touch marks the session as used, postponing its expiry.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchedAt = time.Now()
}

func (s *Session) lastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

// Info is a JSON-safe summary of a session.
type Info struct {
	ID         string            `json:"session_id"`
	SourceURL  string            `json:"url,omitempty"`
	Filename   string            `json:"filename,omitempty"`
	PageCount  int               `json:"page_count"`
	Pages      []pdfdoc.PageSize `json:"pages"`
	Highlights int               `json:"highlights"`
	CreatedAt  time.Time         `json:"created_at"`
}

func (s *Session) Info() Info {
	return Info{
		ID:         s.ID,
		SourceURL:  s.SourceURL,
		Filename:   s.Filename,
		PageCount:  s.Doc.NumPages(),
		Pages:      s.Doc.Pages(),
		Highlights: s.Highlights.Len(),
		CreatedAt:  s.CreatedAt,
	}
}

// Store is a thread-safe session registry with idle-TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// Get returns the session and refreshes its idle timer.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	sess := s.sessions[id]
	s.mu.Unlock()
	if sess != nil {
		sess.Touch()
	}
	return sess
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed()) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
