package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_OK(t *testing.T) {
	var gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("%PDF-1.4 body"))
	}))
	defer ts.Close()

	c := NewClient(5*time.Second, 1024, "pdfmark/test")
	defer c.Close()

	data, err := c.Fetch(context.Background(), ts.URL+"/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 body", string(data))
	assert.Equal(t, "pdfmark/test", gotUA)
	assert.Equal(t, "application/pdf", gotAccept)
}

func TestFetch_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := NewClient(time.Second, 0, "").Fetch(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "gone")
}

func TestFetch_TooLarge(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer ts.Close()

	_, err := NewClient(time.Second, 10, "").Fetch(context.Background(), ts.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestFetch_RejectsScheme(t *testing.T) {
	_, err := NewClient(time.Second, 0, "").Fetch(context.Background(), "file:///etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported url scheme")
}

func TestFetch_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(5*time.Second, 0, "").Fetch(ctx, ts.URL)
	assert.Error(t, err)
}
