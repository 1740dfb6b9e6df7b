package session

import (
	"context"
	"log/slog"

	"github.com/dgallion1/pdfmark/internal/highlight"
	"github.com/dgallion1/pdfmark/internal/pdfdoc"
)

// Fetcher downloads a document by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Opener turns URLs and uploads into registered sessions.
type Opener struct {
	store   *Store
	fetcher Fetcher
	seed    highlight.Seed
	log     *slog.Logger
}

func NewOpener(store *Store, fetcher Fetcher, seed highlight.Seed, log *slog.Logger) *Opener {
	if seed == nil {
		seed = highlight.Seed{}
	}
	return &Opener{store: store, fetcher: fetcher, seed: seed, log: log}
}

// OpenURL fetches and loads the document at url. Seeded highlights for url
// become the session's initial list. Fetch and parse failures are returned as
// *pdfdoc.LoadError.
func (o *Opener) OpenURL(ctx context.Context, url string) (*Session, error) {
	data, err := o.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, &pdfdoc.LoadError{Reason: "fetch " + url, Err: err}
	}
	return o.open(data, url, "")
}

// OpenUpload loads an uploaded document. Uploads never match a seed.
func (o *Opener) OpenUpload(data []byte, filename string) (*Session, error) {
	return o.open(data, "", filename)
}

func (o *Opener) open(data []byte, url, filename string) (*Session, error) {
	doc, err := pdfdoc.Load(data)
	if err != nil {
		return nil, err
	}

	var initial []highlight.Highlight
	if url != "" {
		initial = o.seed.For(url)
	}
	sess := New(doc, url, filename, initial)
	o.store.Put(sess)

	o.log.Info("document opened",
		"session_id", sess.ID,
		"url", url,
		"filename", filename,
		"pages", doc.NumPages(),
		"bytes", len(data),
		"seeded_highlights", len(initial),
	)
	return sess, nil
}
