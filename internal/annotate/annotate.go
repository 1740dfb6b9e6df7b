// Package annotate adds highlight annotations to an existing PDF and
// serialises the result.
package annotate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func init() {
	// Several exports may read contexts at once; keep pdfcpu off the user
	// config dir.
	api.DisableConfigDir()
}

// WriteError reports a failure to serialise the annotated document.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return "serialize annotated pdf: " + e.Err.Error()
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Highlight colour (yellow), DeviceRGB.
var highlightColor = [3]float64{1, 1, 0}

// Writer accumulates annotations on an in-memory copy of the document.
// It is not safe for concurrent use.
type Writer struct {
	ctx   *model.Context
	count int
	name  string
	now   func() time.Time
}

// Open reads and validates data. name seeds the NM (unique name) entries;
// an empty name falls back to "annot".
func Open(data []byte, name string) (*Writer, error) {
	ctx, err := readContext(data)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "annot"
	}
	return &Writer{ctx: ctx, name: name, now: time.Now}, nil
}

func readContext(data []byte) (*model.Context, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}
	return ctx, nil
}

// PageCount is the number of pages in the document.
func (w *Writer) PageCount() int {
	return w.ctx.PageCount
}

// Count is the number of annotations created so far.
func (w *Writer) Count() int {
	return w.count
}

// CreateAnnotation appends a highlight annotation to the page at the 0-based
// index. rect is [x1 y1 x2 y2] in PDF user space and is stored as given;
// QuadPoints cover the same box. Empty contents or author are omitted.
func (w *Writer) CreateAnnotation(page int, rect [4]float64, contents, author string) error {
	pageNr := page + 1
	if pageNr < 1 || pageNr > w.ctx.PageCount {
		return fmt.Errorf("page %d out of range [1,%d]", pageNr, w.ctx.PageCount)
	}
	pageDict, pageRef, _, err := w.ctx.PageDict(pageNr, false)
	if err != nil {
		return fmt.Errorf("page %d: %w", pageNr, err)
	}
	if pageDict == nil {
		return fmt.Errorf("page %d: no page dict", pageNr)
	}

	annot := types.Dict{
		"Type":    types.Name("Annot"),
		"Subtype": types.Name("Highlight"),
		"Rect":    numbers(rect[:]...),
		"QuadPoints": numbers(quadPoints(rect)...),
		"C":  numbers(highlightColor[:]...),
		"F":  types.Integer(4), // Print
		"NM": textString(fmt.Sprintf("%s-%d", w.name, w.count+1)),
		"M":  types.StringLiteral(types.DateString(w.now())),
	}
	if pageRef != nil {
		annot["P"] = *pageRef
	}
	if contents != "" {
		annot["Contents"] = textString(contents)
	}
	if author != "" {
		annot["T"] = textString(author)
	}

	ref, err := w.ctx.IndRefForNewObject(annot)
	if err != nil {
		return fmt.Errorf("add annotation object: %w", err)
	}

	annots := types.Array{}
	if o, found := pageDict.Find("Annots"); found {
		existing, err := w.ctx.DereferenceArray(o)
		if err != nil {
			return fmt.Errorf("page %d Annots: %w", pageNr, err)
		}
		annots = existing
	}
	pageDict["Annots"] = append(annots, *ref)

	w.count++
	return nil
}

// WriteTo serialises the annotated document.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	cw := &countingWriter{w: out}
	if err := api.WriteContext(w.ctx, cw); err != nil {
		return cw.n, &WriteError{Err: err}
	}
	return cw.n, nil
}

// Bytes serialises the annotated document into memory.
func (w *Writer) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// quadPoints lists the box corners top-left, top-right, bottom-left,
// bottom-right, whichever way round rect's y values run.
func quadPoints(rect [4]float64) []float64 {
	left, right := min(rect[0], rect[2]), max(rect[0], rect[2])
	bottom, top := min(rect[1], rect[3]), max(rect[1], rect[3])
	return []float64{left, top, right, top, left, bottom, right, bottom}
}

func numbers(vals ...float64) types.Array {
	arr := make(types.Array, len(vals))
	for i, v := range vals {
		arr[i] = types.Float(v)
	}
	return arr
}

// textString encodes s as a PDF text string: a literal for plain ASCII,
// UTF-16BE with a byte order mark otherwise.
func textString(s string) types.Object {
	if isPlainASCII(s) {
		return types.StringLiteral(s)
	}
	units := utf16.Encode([]rune(s))
	b := make([]byte, 0, 2+2*len(units))
	b = append(b, 0xFE, 0xFF)
	for _, u := range units {
		b = append(b, byte(u>>8), byte(u))
	}
	return types.NewHexLiteral(b)
}

func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c > 0x7E || c == '(' || c == ')' || c == '\\' {
			return false
		}
	}
	return true
}

func decodeText(o types.Object) (string, error) {
	switch v := o.(type) {
	case nil:
		return "", nil
	case types.StringLiteral:
		return types.StringLiteralToString(v)
	case types.HexLiteral:
		b, err := v.Bytes()
		if err != nil {
			return "", err
		}
		return decodeTextBytes(b), nil
	}
	return "", fmt.Errorf("unexpected text object %T", o)
}

func decodeTextBytes(b []byte) string {
	if len(b) < 2 || b[0] != 0xFE || b[1] != 0xFF {
		return string(b)
	}
	b = b[2:]
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(units))
}

var errNotNumber = errors.New("not a number")

func number(o types.Object) (float64, error) {
	switch v := o.(type) {
	case types.Float:
		return v.Value(), nil
	case types.Integer:
		return float64(v.Value()), nil
	}
	return 0, errNotNumber
}
