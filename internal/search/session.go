package search

import (
	"context"
	"strings"
	"sync"

	"github.com/vijay-prabhu/studyhub/internal/scoring"
)

// Session holds the current search state of one user: free text, facet
// selections, profile and limit. It is passed by reference to whoever
// refines the search and is safe for concurrent use.
type Session struct {
	mu sync.RWMutex
	q  Query
}

// NewSession returns a session with every facet neutral
func NewSession() *Session {
	return &Session{}
}

// Query returns a copy of the current state
func (s *Session) Query() Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.q.Clone()
}

func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.q.Text = text
}

func (s *Session) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.q.Category = category
}

func (s *Session) SetBucket(bucket string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.q.Bucket = bucket
}

func (s *Session) SetLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.q.Limit = limit
}

// SetProfile replaces the whole profile
func (s *Session) SetProfile(p scoring.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.q.Profile = Query{Profile: p}.Clone().Profile
}

// SetWeight sets one keyword weight; a weight of 0 removes the keyword
func (s *Session) SetWeight(keyword string, weight float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return
	}
	if weight <= 0 {
		delete(s.q.Profile, kw)
		return
	}
	if s.q.Profile == nil {
		s.q.Profile = make(scoring.Profile)
	}
	s.q.Profile[kw] = weight
}

// Reset clears every facet, the profile and the limit
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.q = Query{}
}

// Run searches with the session's current state
func (s *Session) Run(ctx context.Context, e *Engine) (*Result, error) {
	return e.Search(ctx, s.Query())
}
