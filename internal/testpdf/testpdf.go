// Package testpdf builds small, valid PDF files for tests.
package testpdf

import (
	"bytes"
	"fmt"
)

// Page is a page's MediaBox size in PDF units.
type Page struct {
	Width, Height float64
}

// Options tweak the generated file.
type Options struct {
	// InheritMediaBox puts the first page's MediaBox on the page tree root
	// instead of on each page.
	InheritMediaBox bool
}

// Build returns a PDF with one empty page per entry.
func Build(pages ...Page) []byte {
	return BuildWith(Options{}, pages...)
}

func BuildWith(opts Options, pages ...Page) []byte {
	var objs []string
	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}

	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")
	root := fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d", kids, len(pages))
	if opts.InheritMediaBox && len(pages) > 0 {
		root += " " + mediaBox(pages[0])
	}
	objs = append(objs, root+" >>")

	for _, p := range pages {
		page := "<< /Type /Page /Parent 2 0 R /Resources << >>"
		if !opts.InheritMediaBox {
			page += " " + mediaBox(p)
		}
		objs = append(objs, page+" >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func mediaBox(p Page) string {
	return fmt.Sprintf("/MediaBox [0 0 %g %g]", p.Width, p.Height)
}
