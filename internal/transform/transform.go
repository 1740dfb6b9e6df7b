// Package transform converts screen-space highlights into annotation calls in
// PDF page space.
//
// Screen coordinates have their origin at the top-left of the rendered page and
// grow downwards; PDF user space has its origin at the bottom-left and grows
// upwards. For a rect selected on a page rendered at rect.Width x rect.Height
// pixels, with the source page measuring pageWidth x pageHeight units:
//
//	xScale = rect.Width / pageWidth
//	yScale = rect.Height / pageHeight
//	pdf    = [x1/xScale, (rect.Height-y1)/yScale, x2/xScale, (rect.Height-y2)/yScale]
package transform

import (
	"fmt"
	"math"

	"github.com/dgallion1/pdfmark/internal/highlight"
)

type Rect = highlight.Rect

// Authors tag the role of the marker annotations.
const (
	AuthorComment = "comment"
	AuthorEmoji   = "emoji"
)

// Marker sizes in PDF units.
const (
	CommentWidth  = 10
	CommentHeight = 10
	EmojiWidth    = 20
	EmojiHeight   = 10
)

// PageModel is the loaded document, addressed by 0-based page index.
type PageModel interface {
	NumPages() int
	PageSize(index int) (width, height float64, err error)
}

// AnnotationWriter receives one call per annotation. page is 0-based; rect is
// in PDF user space.
type AnnotationWriter interface {
	CreateAnnotation(page int, rect [4]float64, contents, author string) error
}

type Options struct {
	// OriginFallback anchors the comment and emoji markers of a highlight
	// without rects at the page origin. When false those markers are skipped.
	OriginFallback bool
}

// Result counts what Apply emitted.
type Result struct {
	Highlights      int `json:"highlights"`
	RectAnnotations int `json:"rect_annotations"`
	Comments        int `json:"comments"`
	Emojis          int `json:"emojis"`
	// NonUniform lists highlights whose rects disagree on scale. Their markers
	// still use the first rect's scale.
	NonUniform []string `json:"non_uniform,omitempty"`
}

// Total is the number of annotations written.
func (r Result) Total() int {
	return r.RectAnnotations + r.Comments + r.Emojis
}

// Apply writes the annotations for every highlight to w. It stops at the first
// error; annotations already handed to w stay there.
func Apply(highlights []highlight.Highlight, doc PageModel, w AnnotationWriter, opts Options) (Result, error) {
	var res Result
	for _, h := range highlights {
		if err := applyOne(h, doc, w, opts, &res); err != nil {
			return res, err
		}
		res.Highlights++
	}
	return res, nil
}

func applyOne(h highlight.Highlight, doc PageModel, w AnnotationWriter, opts Options, res *Result) error {
	page := h.Position.PageNumber - 1
	if page < 0 || page >= doc.NumPages() {
		return &PageIndexError{HighlightID: h.ID, PageNumber: h.Position.PageNumber, PageCount: doc.NumPages()}
	}
	pageW, pageH, err := doc.PageSize(page)
	if err != nil {
		return fmt.Errorf("page %d size: %w", h.Position.PageNumber, err)
	}

	rects := h.Position.Rects
	for i, r := range rects {
		if r.Width == 0 || r.Height == 0 {
			return &InvalidRectError{HighlightID: h.ID, Index: i, Rect: r}
		}
	}

	for _, r := range rects {
		if err := w.CreateAnnotation(page, ToPDF(r, pageW, pageH), "", ""); err != nil {
			return &AnnotationWriteError{HighlightID: h.ID, Page: page, Err: err}
		}
		res.RectAnnotations++
	}
	if !UniformScale(rects) {
		res.NonUniform = append(res.NonUniform, h.ID)
	}

	// Every highlight carries a comment, so the marker is written even when
	// its text is empty.
	anchor, ok := DeriveAnchor(rects, pageW, pageH)
	if !ok && !opts.OriginFallback {
		return nil
	}

	if err := w.CreateAnnotation(page, anchor.box(CommentWidth, CommentHeight), h.Comment.Text, AuthorComment); err != nil {
		return &AnnotationWriteError{HighlightID: h.ID, Page: page, Author: AuthorComment, Err: err}
	}
	res.Comments++

	if h.Comment.Emoji == "" {
		return nil
	}
	if err := w.CreateAnnotation(page, anchor.box(EmojiWidth, EmojiHeight), h.Comment.Emoji, AuthorEmoji); err != nil {
		return &AnnotationWriteError{HighlightID: h.ID, Page: page, Author: AuthorEmoji, Err: err}
	}
	res.Emojis++
	return nil
}

// Anchor is the PDF-space point the comment and emoji markers hang from.
type Anchor struct {
	X, Y float64
}

func (a Anchor) box(w, h float64) [4]float64 {
	return [4]float64{a.X, a.Y, a.X + w, a.Y + h}
}

// DeriveAnchor places the markers at the transformed top-left corner of the
// first rect, scaled by that rect's own factors. Without rects it returns the
// page origin and false.
func DeriveAnchor(rects []Rect, pageW, pageH float64) (Anchor, bool) {
	if len(rects) == 0 {
		return Anchor{}, false
	}
	p := ToPDF(rects[0], pageW, pageH)
	return Anchor{X: p[0], Y: p[1]}, true
}

// Scale returns the screen to PDF scale factors of r.
func Scale(r Rect, pageW, pageH float64) (xScale, yScale float64) {
	return r.Width / pageW, r.Height / pageH
}

// ToPDF maps a screen rect to [x1, y1, x2, y2] in PDF user space.
func ToPDF(r Rect, pageW, pageH float64) [4]float64 {
	xs, ys := Scale(r, pageW, pageH)
	return [4]float64{
		r.X1 / xs,
		(r.Height - r.Y1) / ys,
		r.X2 / xs,
		(r.Height - r.Y2) / ys,
	}
}

// ToScreen inverts ToPDF for a page rendered at screenW x screenH pixels.
func ToScreen(p [4]float64, screenW, screenH, pageW, pageH float64) Rect {
	xs, ys := screenW/pageW, screenH/pageH
	return Rect{
		X1:     p[0] * xs,
		Y1:     screenH - p[1]*ys,
		X2:     p[2] * xs,
		Y2:     screenH - p[3]*ys,
		Width:  screenW,
		Height: screenH,
	}
}

const scaleTolerance = 1e-9

// UniformScale reports whether all rects were selected at the same rendered
// page size.
func UniformScale(rects []Rect) bool {
	for _, r := range rects[min(1, len(rects)):] {
		if math.Abs(r.Width-rects[0].Width) > scaleTolerance || math.Abs(r.Height-rects[0].Height) > scaleTolerance {
			return false
		}
	}
	return true
}
