package highlight

import "sync"

// Store is the in-memory highlight list of one document session, newest
// first.
type Store struct {
	mu         sync.Mutex
	highlights []Highlight
}

func NewStore(initial []Highlight) *Store {
	s := &Store{}
	s.Replace(initial)
	return s
}

// Add assigns a fresh id and prepends the highlight.
func (s *Store) Add(nh NewHighlight) Highlight {
	h := Highlight{
		ID:       NewID(),
		Position: nh.Position,
		Content:  nh.Content,
		Comment:  nh.Comment,
	}.clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlights = append([]Highlight{h}, s.highlights...)
	return h.clone()
}

// Update merges the patches into the highlight with the given id. Fields not
// set in a patch keep their current value.
func (s *Store) Update(id string, pos PositionPatch, content ContentPatch) (Highlight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.highlights {
		h := &s.highlights[i]
		if h.ID != id {
			continue
		}
		if pos.PageNumber != nil {
			h.Position.PageNumber = *pos.PageNumber
		}
		if pos.Rects != nil {
			h.Position.Rects = append([]Rect(nil), pos.Rects...)
		}
		if pos.BoundingRect != nil {
			h.Position.BoundingRect = *pos.BoundingRect
		}
		if content.Text != nil {
			h.Content.Text = *content.Text
		}
		if content.Image != nil {
			h.Content.Image = *content.Image
		}
		return h.clone(), true
	}
	return Highlight{}, false
}

func (s *Store) Get(id string) (Highlight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.highlights {
		if h.ID == id {
			return h.clone(), true
		}
	}
	return Highlight{}, false
}

// List returns a copy of all highlights.
func (s *Store) List() []Highlight {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Highlight, len(s.highlights))
	for i, h := range s.highlights {
		out[i] = h.clone()
	}
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.highlights)
}

// Reset clears the list.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlights = nil
}

// Replace swaps the whole list, e.g. when a different document is opened.
func (s *Store) Replace(list []Highlight) {
	cp := make([]Highlight, 0, len(list))
	for _, h := range list {
		if h.ID == "" {
			h.ID = NewID()
		}
		cp = append(cp, h.clone())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlights = cp
}
