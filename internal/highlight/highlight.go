package highlight

// Rect is a selection rectangle in viewport pixels. Width and Height are the
// rendered page's on-screen size when the selection was made.
type Rect struct {
	X1     float64 `json:"x1" yaml:"x1"`
	Y1     float64 `json:"y1" yaml:"y1"`
	X2     float64 `json:"x2" yaml:"x2"`
	Y2     float64 `json:"y2" yaml:"y2"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Position ties a highlight to a page.
type Position struct {
	PageNumber   int    `json:"pageNumber" yaml:"pageNumber"` // 1-based
	Rects        []Rect `json:"rects" yaml:"rects"`
	BoundingRect Rect   `json:"boundingRect" yaml:"boundingRect"`
}

// Content is what was selected: text for text highlights, a screenshot data
// URL for area highlights.
type Content struct {
	Text  string `json:"text,omitempty" yaml:"text,omitempty"`
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
}

type Comment struct {
	Text  string `json:"text" yaml:"text"`
	Emoji string `json:"emoji,omitempty" yaml:"emoji,omitempty"`
}

// Highlight is a user annotation tied to a page region.
type Highlight struct {
	ID       string   `json:"id" yaml:"id"`
	Position Position `json:"position" yaml:"position"`
	Content  Content  `json:"content" yaml:"content"`
	Comment  Comment  `json:"comment" yaml:"comment"`
}

// IsArea reports whether this is an area (screenshot) highlight.
func (h Highlight) IsArea() bool {
	return h.Content.Image != ""
}

// NewHighlight is a highlight before an id has been assigned.
type NewHighlight struct {
	Position Position `json:"position"`
	Content  Content  `json:"content"`
	Comment  Comment  `json:"comment"`
}

// PositionPatch carries the position fields of an update. Nil fields are left
// untouched.
type PositionPatch struct {
	PageNumber   *int   `json:"pageNumber,omitempty"`
	Rects        []Rect `json:"rects,omitempty"`
	BoundingRect *Rect  `json:"boundingRect,omitempty"`
}

// ContentPatch carries the content fields of an update.
type ContentPatch struct {
	Text  *string `json:"text,omitempty"`
	Image *string `json:"image,omitempty"`
}

func (h Highlight) clone() Highlight {
	out := h
	if h.Position.Rects != nil {
		out.Position.Rects = make([]Rect, len(h.Position.Rects))
		copy(out.Position.Rects, h.Position.Rects)
	}
	return out
}
