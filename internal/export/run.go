// Package export turns a document and its highlights into an annotated PDF,
// one export at a time.
package export

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgallion1/pdfmark/internal/annotate"
	"github.com/dgallion1/pdfmark/internal/highlight"
	"github.com/dgallion1/pdfmark/internal/pdfdoc"
	"github.com/dgallion1/pdfmark/internal/transform"
)

// ErrorKind classifies export failures for callers.
type ErrorKind string

const (
	KindDocumentLoad    ErrorKind = "document_load"
	KindPageIndex       ErrorKind = "page_index"
	KindInvalidRect     ErrorKind = "invalid_rect"
	KindAnnotationWrite ErrorKind = "annotation_write"
	KindCanceled        ErrorKind = "canceled"
	KindInternal        ErrorKind = "internal"
)

// KindOf maps err to its ErrorKind.
func KindOf(err error) ErrorKind {
	var (
		loadErr   *pdfdoc.LoadError
		pageErr   *transform.PageIndexError
		rectErr   *transform.InvalidRectError
		annotErr  *transform.AnnotationWriteError
		serialErr *annotate.WriteError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &loadErr):
		return KindDocumentLoad
	case errors.As(err, &pageErr):
		return KindPageIndex
	case errors.As(err, &rectErr):
		return KindInvalidRect
	case errors.As(err, &annotErr), errors.As(err, &serialErr):
		return KindAnnotationWrite
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	}
	return KindInternal
}

type Options struct {
	transform.Options
	// Name prefixes the unique names of the written annotations.
	Name string
}

// Output is a finished export.
type Output struct {
	PDF    []byte
	Result transform.Result
}

// Run loads data, writes one annotation per highlighted rect plus comment and
// emoji markers, and serialises the annotated document. phase, when non-nil,
// is told about each stage.
func Run(ctx context.Context, data []byte, highlights []highlight.Highlight, opts Options, log *slog.Logger, phase func(JobStatus)) (Output, error) {
	if phase == nil {
		phase = func(JobStatus) {}
	}

	phase(StatusLoading)
	doc, err := pdfdoc.Load(data)
	if err != nil {
		return Output{}, err
	}
	w, err := annotate.Open(data, opts.Name)
	if err != nil {
		return Output{}, &pdfdoc.LoadError{Reason: "open for annotation", Err: err}
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	phase(StatusAnnotating)
	res, err := transform.Apply(highlights, doc, w, opts.Options)
	if err != nil {
		return Output{Result: res}, err
	}
	for _, id := range res.NonUniform {
		log.Warn("highlight rects differ in scale; markers use the first rect", "highlight_id", id)
	}
	if err := ctx.Err(); err != nil {
		return Output{Result: res}, err
	}

	phase(StatusWriting)
	out, err := w.Bytes()
	if err != nil {
		return Output{Result: res}, err
	}
	return Output{PDF: out, Result: res}, nil
}
