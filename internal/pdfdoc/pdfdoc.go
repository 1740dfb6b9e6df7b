// Package pdfdoc loads a PDF into a page-addressable model: page count, page
// sizes in PDF units and the raw bytes.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
)

// LoadError reports bytes that could not be opened as a PDF.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load document: %s: %v", e.Reason, e.Err)
	}
	return "load document: " + e.Reason
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// PageSize is a page's MediaBox extent in PDF user units.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Document is a loaded PDF. It is immutable after Load.
type Document struct {
	data  []byte
	pages []PageSize
}

// Load parses data and reads every page's size up front.
func Load(data []byte) (doc *Document, err error) {
	if len(data) == 0 {
		return nil, &LoadError{Reason: "empty input"}
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data[:min(len(data), 1024)], "\x00\t\n\r "), []byte("%PDF-")) {
		return nil, &LoadError{Reason: "missing %PDF- header"}
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, &LoadError{Reason: "malformed pdf", Err: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &LoadError{Reason: "malformed pdf", Err: err}
	}

	n := reader.NumPage()
	if n <= 0 {
		return nil, &LoadError{Reason: "document has no pages"}
	}

	pages := make([]PageSize, 0, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			return nil, &LoadError{Reason: fmt.Sprintf("page %d missing", i)}
		}
		size, err := mediaBox(page.V)
		if err != nil {
			return nil, &LoadError{Reason: fmt.Sprintf("page %d", i), Err: err}
		}
		pages = append(pages, size)
	}

	return &Document{data: data, pages: pages}, nil
}

// mediaBox reads the page's MediaBox, walking up the page tree when the page
// inherits it.
func mediaBox(v pdflib.Value) (PageSize, error) {
	for depth := 0; !v.IsNull() && depth < 64; depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdflib.Array {
			if box.Len() != 4 {
				return PageSize{}, fmt.Errorf("MediaBox has %d entries", box.Len())
			}
			llx, lly := box.Index(0).Float64(), box.Index(1).Float64()
			urx, ury := box.Index(2).Float64(), box.Index(3).Float64()
			size := PageSize{Width: abs(urx - llx), Height: abs(ury - lly)}
			if size.Width == 0 || size.Height == 0 {
				return PageSize{}, errors.New("MediaBox has zero area")
			}
			return size, nil
		}
		v = v.Key("Parent")
	}
	return PageSize{}, errors.New("no MediaBox")
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func (d *Document) NumPages() int {
	return len(d.pages)
}

// PageSize returns the size of the page at the 0-based index.
func (d *Document) PageSize(index int) (width, height float64, err error) {
	if index < 0 || index >= len(d.pages) {
		return 0, 0, fmt.Errorf("page index %d out of range [0,%d)", index, len(d.pages))
	}
	p := d.pages[index]
	return p.Width, p.Height, nil
}

// ScaledSize is the pixel size of the page rendered at scale (1 = 1px per
// PDF unit).
func (d *Document) ScaledSize(index int, scale float64) (width, height float64, err error) {
	w, h, err := d.PageSize(index)
	if err != nil {
		return 0, 0, err
	}
	return w * scale, h * scale, nil
}

// Pages returns a copy of all page sizes in order.
func (d *Document) Pages() []PageSize {
	return append([]PageSize(nil), d.pages...)
}

// Bytes returns the raw document. Callers must not modify it.
func (d *Document) Bytes() []byte {
	return d.data
}
