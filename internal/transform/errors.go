package transform

import (
	"errors"
	"fmt"
)

// ErrPageIndexOutOfRange is matched by every *PageIndexError.
var ErrPageIndexOutOfRange = errors.New("invalid page")

// PageIndexError reports a highlight whose page number does not exist in the
// document.
type PageIndexError struct {
	HighlightID string
	PageNumber  int // 1-based, as recorded on the highlight
	PageCount   int
}

func (e *PageIndexError) Error() string {
	return fmt.Sprintf("invalid page: highlight %s references page %d of %d", e.HighlightID, e.PageNumber, e.PageCount)
}

func (e *PageIndexError) Is(target error) bool {
	return target == ErrPageIndexOutOfRange
}

// InvalidRectError reports a rect whose on-screen width or height is zero,
// which leaves the screen to PDF scale undefined.
type InvalidRectError struct {
	HighlightID string
	Index       int
	Rect        Rect
}

func (e *InvalidRectError) Error() string {
	return fmt.Sprintf("highlight %s rect %d: zero on-screen size %gx%g", e.HighlightID, e.Index, e.Rect.Width, e.Rect.Height)
}

// AnnotationWriteError wraps a failure returned by the annotation writer.
type AnnotationWriteError struct {
	HighlightID string
	Page        int // 0-based page index passed to the writer
	Author      string
	Err         error
}

func (e *AnnotationWriteError) Error() string {
	role := e.Author
	if role == "" {
		role = "rect"
	}
	return fmt.Sprintf("write %s annotation for highlight %s on page %d: %v", role, e.HighlightID, e.Page+1, e.Err)
}

func (e *AnnotationWriteError) Unwrap() error {
	return e.Err
}
