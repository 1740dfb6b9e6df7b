package pdfdoc

import (
	"errors"
	"testing"

	"github.com/dgallion1/pdfmark/internal/testpdf"
)

func TestLoad_PageSizes(t *testing.T) {
	data := testpdf.Build(testpdf.Page{Width: 600, Height: 800}, testpdf.Page{Width: 612, Height: 792})
	doc, err := Load(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.NumPages() != 2 {
		t.Fatalf("expected 2 pages, got %d", doc.NumPages())
	}

	w, h, err := doc.PageSize(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 612 || h != 792 {
		t.Errorf("expected 612x792, got %gx%g", w, h)
	}

	pages := doc.Pages()
	if pages[0] != (PageSize{Width: 600, Height: 800}) {
		t.Errorf("expected first page 600x800, got %+v", pages[0])
	}
	if len(doc.Bytes()) != len(data) {
		t.Errorf("expected raw bytes to be kept")
	}
}

func TestLoad_InheritedMediaBox(t *testing.T) {
	data := testpdf.BuildWith(testpdf.Options{InheritMediaBox: true},
		testpdf.Page{Width: 595, Height: 842}, testpdf.Page{Width: 595, Height: 842})
	doc, err := Load(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < doc.NumPages(); i++ {
		w, h, _ := doc.PageSize(i)
		if w != 595 || h != 842 {
			t.Errorf("page %d: expected inherited 595x842, got %gx%g", i+1, w, h)
		}
	}
}

func TestLoad_ScaledSize(t *testing.T) {
	doc, err := Load(testpdf.Build(testpdf.Page{Width: 600, Height: 800}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, h, err := doc.ScaledSize(0, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != 900 || h != 1200 {
		t.Errorf("expected 900x1200, got %gx%g", w, h)
	}
}

func TestLoad_PageSizeOutOfRange(t *testing.T) {
	doc, err := Load(testpdf.Build(testpdf.Page{Width: 600, Height: 800}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := doc.PageSize(1); err == nil {
		t.Error("expected error for page index past the end")
	}
	if _, _, err := doc.PageSize(-1); err == nil {
		t.Error("expected error for negative page index")
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("hello world")},
		{"truncated", []byte("%PDF-1.4\n1 0 obj\n<<")},
	}
	for _, tt := range tests {
		_, err := Load(tt.data)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		var le *LoadError
		if !errors.As(err, &le) {
			t.Errorf("%s: expected *LoadError, got %T", tt.name, err)
		}
	}
}
