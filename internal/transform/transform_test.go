package transform

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pdfmark/internal/highlight"
)

type fakePages [][2]float64

func (f fakePages) NumPages() int { return len(f) }

func (f fakePages) PageSize(i int) (float64, float64, error) {
	return f[i][0], f[i][1], nil
}

type call struct {
	page     int
	rect     [4]float64
	contents string
	author   string
}

type recorder struct {
	calls  []call
	failOn string // author value that triggers an error; "-" fails rect annotations
}

func (r *recorder) CreateAnnotation(page int, rect [4]float64, contents, author string) error {
	if r.failOn != "" && (r.failOn == author || (r.failOn == "-" && author == "")) {
		return errors.New("boom")
	}
	r.calls = append(r.calls, call{page, rect, contents, author})
	return nil
}

func (r *recorder) byAuthor(author string) []call {
	var out []call
	for _, c := range r.calls {
		if c.author == author {
			out = append(out, c)
		}
	}
	return out
}

var letter = fakePages{{600, 800}, {612, 792}}

func hl(page int, comment highlight.Comment, rects ...Rect) highlight.Highlight {
	return highlight.Highlight{
		ID:       "h1",
		Position: highlight.Position{PageNumber: page, Rects: rects},
		Comment:  comment,
	}
}

func TestApply_ExampleAtUnitScale(t *testing.T) {
	rec := &recorder{}
	h := hl(1, highlight.Comment{}, Rect{X1: 50, Y1: 100, X2: 150, Y2: 200, Width: 600, Height: 800})

	res, err := Apply([]highlight.Highlight{h}, letter, rec, Options{})
	require.NoError(t, err)

	rects := rec.byAuthor("")
	require.Len(t, rects, 1)
	assert.Equal(t, 0, rects[0].page)
	assert.Equal(t, [4]float64{50, 700, 150, 600}, rects[0].rect)
	assert.Equal(t, 1, res.RectAnnotations)
	assert.Equal(t, 2, res.Total())
}

func TestApply_FullPageRectInvertsYFlip(t *testing.T) {
	for i, size := range letter {
		w, h := size[0], size[1]
		got := ToPDF(Rect{X1: 0, Y1: 0, X2: w, Y2: h, Width: w, Height: h}, w, h)
		assert.Equal(t, [4]float64{0, h, w, 0}, got, "page %d", i+1)
	}
}

func TestApply_ScaledSelection(t *testing.T) {
	rec := &recorder{}
	// Page rendered at 2x: 1200x1600 pixels for a 600x800 page.
	h := hl(1, highlight.Comment{}, Rect{X1: 100, Y1: 200, X2: 300, Y2: 400, Width: 1200, Height: 1600})

	_, err := Apply([]highlight.Highlight{h}, letter, rec, Options{})
	require.NoError(t, err)
	rects := rec.byAuthor("")
	require.Len(t, rects, 1)
	assert.Equal(t, [4]float64{50, 700, 150, 600}, rects[0].rect)
}

func TestToScreen_RoundTrip(t *testing.T) {
	rects := []Rect{
		{X1: 50, Y1: 100, X2: 150, Y2: 200, Width: 600, Height: 800},
		{X1: 12.5, Y1: 33.3, X2: 410.1, Y2: 47.9, Width: 918, Height: 1188},
		{X1: 0.1, Y1: 0.2, X2: 0.3, Y2: 0.4, Width: 333.3, Height: 431.7},
	}
	for _, r := range rects {
		for _, page := range letter {
			p := ToPDF(r, page[0], page[1])
			back := ToScreen(p, r.Width, r.Height, page[0], page[1])
			assert.InDelta(t, r.X1, back.X1, 1e-9)
			assert.InDelta(t, r.Y1, back.Y1, 1e-9)
			assert.InDelta(t, r.X2, back.X2, 1e-9)
			assert.InDelta(t, r.Y2, back.Y2, 1e-9)
			assert.Equal(t, r.Width, back.Width)
			assert.Equal(t, r.Height, back.Height)
		}
	}
}

func TestApply_OneAnnotationPerRect(t *testing.T) {
	rec := &recorder{}
	r := Rect{X1: 50, Y1: 100, X2: 150, Y2: 200, Width: 600, Height: 800}
	// Identical overlapping rects are not deduplicated.
	h := hl(1, highlight.Comment{}, r, r, r)

	res, err := Apply([]highlight.Highlight{h}, letter, rec, Options{})
	require.NoError(t, err)
	assert.Len(t, rec.byAuthor(""), 3)
	assert.Equal(t, 3, res.RectAnnotations)
}

func TestApply_EmptyRects(t *testing.T) {
	rec := &recorder{}
	h := hl(1, highlight.Comment{Text: "orphan", Emoji: "🔥"})

	res, err := Apply([]highlight.Highlight{h}, letter, rec, Options{})
	require.NoError(t, err)
	assert.Empty(t, rec.calls)
	assert.Equal(t, 0, res.Total())
	assert.Equal(t, 1, res.Highlights)
}

func TestApply_EmptyRectsOriginFallback(t *testing.T) {
	rec := &recorder{}
	h := hl(2, highlight.Comment{Text: "orphan", Emoji: "🔥"})

	res, err := Apply([]highlight.Highlight{h}, letter, rec, Options{OriginFallback: true})
	require.NoError(t, err)
	require.Len(t, rec.calls, 2)
	assert.Equal(t, call{1, [4]float64{0, 0, 10, 10}, "orphan", AuthorComment}, rec.calls[0])
	assert.Equal(t, call{1, [4]float64{0, 0, 20, 10}, "🔥", AuthorEmoji}, rec.calls[1])
	assert.Equal(t, 0, res.RectAnnotations)
}

func TestApply_CommentWithoutEmoji(t *testing.T) {
	rec := &recorder{}
	h := hl(1, highlight.Comment{Text: "Flow or TypeScript?"},
		Rect{X1: 50, Y1: 100, X2: 150, Y2: 200, Width: 600, Height: 800})

	res, err := Apply([]highlight.Highlight{h}, letter, rec, Options{})
	require.NoError(t, err)

	comments := rec.byAuthor(AuthorComment)
	require.Len(t, comments, 1)
	assert.Empty(t, rec.byAuthor(AuthorEmoji))
	assert.Equal(t, [4]float64{50, 700, 60, 710}, comments[0].rect)
	assert.Equal(t, "Flow or TypeScript?", comments[0].contents)
	assert.Equal(t, 1, res.Comments)
	assert.Equal(t, 0, res.Emojis)
}

func TestApply_CommentWithEmoji(t *testing.T) {
	rec := &recorder{}
	h := hl(1, highlight.Comment{Text: "hot", Emoji: "🔥"},
		Rect{X1: 50, Y1: 100, X2: 150, Y2: 200, Width: 600, Height: 800})

	res, err := Apply([]highlight.Highlight{h}, letter, rec, Options{})
	require.NoError(t, err)

	require.Len(t, rec.byAuthor(AuthorComment), 1)
	emojis := rec.byAuthor(AuthorEmoji)
	require.Len(t, emojis, 1)
	assert.Equal(t, [4]float64{50, 700, 70, 710}, emojis[0].rect)
	assert.Equal(t, "🔥", emojis[0].contents)
	assert.Equal(t, 3, res.Total())
}

func TestApply_EmptyCommentStillGetsMarker(t *testing.T) {
	rec := &recorder{}
	h := hl(1, highlight.Comment{Text: ""}, Rect{X1: 50, Y1: 100, X2: 150, Y2: 200, Width: 600, Height: 800})

	res, err := Apply([]highlight.Highlight{h}, letter, rec, Options{})
	require.NoError(t, err)
	require.Len(t, rec.calls, 2)
	assert.Equal(t, call{0, [4]float64{50, 700, 60, 710}, "", AuthorComment}, rec.calls[1])
	assert.Empty(t, rec.byAuthor(AuthorEmoji))
	assert.Equal(t, 1, res.Comments)
	assert.Equal(t, 0, res.Emojis)
}

func TestApply_PageOutOfRange(t *testing.T) {
	for _, page := range []int{0, -1, len(letter) + 1} {
		t.Run(fmt.Sprintf("page=%d", page), func(t *testing.T) {
			rec := &recorder{}
			h := hl(page, highlight.Comment{}, Rect{X1: 1, Y1: 1, X2: 2, Y2: 2, Width: 10, Height: 10})

			_, err := Apply([]highlight.Highlight{h}, letter, rec, Options{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrPageIndexOutOfRange)

			var pe *PageIndexError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, page, pe.PageNumber)
			assert.Equal(t, len(letter), pe.PageCount)
			assert.Empty(t, rec.calls)
		})
	}
}

func TestApply_StopsAtFirstBadHighlight(t *testing.T) {
	rec := &recorder{}
	good := hl(1, highlight.Comment{}, Rect{X1: 1, Y1: 1, X2: 2, Y2: 2, Width: 600, Height: 800})
	bad := hl(9, highlight.Comment{}, Rect{X1: 1, Y1: 1, X2: 2, Y2: 2, Width: 600, Height: 800})

	res, err := Apply([]highlight.Highlight{good, bad, good}, letter, rec, Options{})
	require.ErrorIs(t, err, ErrPageIndexOutOfRange)
	assert.Equal(t, 1, res.Highlights)
	// Only the first highlight's rect and comment marker.
	assert.Len(t, rec.calls, 2)
}

func TestApply_ZeroSizeRect(t *testing.T) {
	rec := &recorder{}
	h := hl(1, highlight.Comment{}, Rect{X1: 1, Y1: 1, X2: 2, Y2: 2, Width: 0, Height: 800})

	_, err := Apply([]highlight.Highlight{h}, letter, rec, Options{})
	var re *InvalidRectError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 0, re.Index)
	assert.Empty(t, rec.calls)
}

func TestApply_WriterErrors(t *testing.T) {
	tests := []struct {
		failOn string
		author string
	}{
		{"-", ""},
		{AuthorComment, AuthorComment},
		{AuthorEmoji, AuthorEmoji},
	}
	for _, tt := range tests {
		rec := &recorder{failOn: tt.failOn}
		h := hl(2, highlight.Comment{Text: "t", Emoji: "e"}, Rect{X1: 1, Y1: 1, X2: 2, Y2: 2, Width: 612, Height: 792})

		_, err := Apply([]highlight.Highlight{h}, letter, rec, Options{})
		var we *AnnotationWriteError
		require.ErrorAs(t, err, &we, "failOn=%s", tt.failOn)
		assert.Equal(t, tt.author, we.Author)
		assert.Equal(t, 1, we.Page)
		assert.EqualError(t, errors.Unwrap(err), "boom")
	}
}

func TestApply_NonUniformScaleUsesFirstRect(t *testing.T) {
	rec := &recorder{}
	h := hl(1, highlight.Comment{Text: "zoomed"},
		Rect{X1: 60, Y1: 80, X2: 120, Y2: 100, Width: 600, Height: 800},
		Rect{X1: 120, Y1: 160, X2: 240, Y2: 200, Width: 1200, Height: 1600},
	)

	res, err := Apply([]highlight.Highlight{h}, letter, rec, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"h1"}, res.NonUniform)

	comments := rec.byAuthor(AuthorComment)
	require.Len(t, comments, 1)
	assert.Equal(t, [4]float64{60, 720, 70, 730}, comments[0].rect)
	// Both rects land on the same PDF region once each uses its own scale.
	assert.Equal(t, [4]float64{60, 720, 120, 700}, rec.calls[0].rect)
	assert.Equal(t, [4]float64{60, 720, 120, 700}, rec.calls[1].rect)
}

func TestUniformScale(t *testing.T) {
	assert.True(t, UniformScale(nil))
	assert.True(t, UniformScale([]Rect{{Width: 1, Height: 2}}))
	assert.True(t, UniformScale([]Rect{{Width: 1, Height: 2}, {Width: 1, Height: 2}}))
	assert.False(t, UniformScale([]Rect{{Width: 1, Height: 2}, {Width: 1, Height: 3}}))
}

func TestDeriveAnchor(t *testing.T) {
	a, ok := DeriveAnchor(nil, 600, 800)
	assert.False(t, ok)
	assert.Equal(t, Anchor{}, a)

	a, ok = DeriveAnchor([]Rect{{X1: 50, Y1: 100, X2: 150, Y2: 200, Width: 600, Height: 800}}, 600, 800)
	assert.True(t, ok)
	assert.Equal(t, Anchor{X: 50, Y: 700}, a)
}
