// Package sidebar renders a session's highlight list as an HTML fragment.
package sidebar

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/pdfmark/internal/highlight"
)

// ExcerptRunes caps the quoted selection text.
const ExcerptRunes = 90

// goldmark's default renderer omits raw HTML, which is what comments need.
var md = goldmark.New()

// Render writes the list as <ul class="sidebar__highlights">.
func Render(w io.Writer, highlights []highlight.Highlight) error {
	list := element(atom.Ul, "sidebar__highlights")
	for _, h := range highlights {
		item, err := renderItem(h)
		if err != nil {
			return fmt.Errorf("highlight %s: %w", h.ID, err)
		}
		list.AppendChild(item)
	}
	return html.Render(w, list)
}

// RenderString is Render into a string.
func RenderString(highlights []highlight.Highlight) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, highlights); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderItem builds one list entry. The link is only the location line;
// comment markdown may carry its own links and anchors do not nest.
func renderItem(h highlight.Highlight) (*html.Node, error) {
	hash := highlight.Hash(h.ID)
	li := element(atom.Li, "sidebar__highlight")
	li.Attr = append(li.Attr, html.Attribute{Key: "data-hash", Val: hash})

	body := element(atom.Div, "")
	li.AppendChild(body)

	if h.Comment.Emoji != "" {
		emoji := element(atom.Span, "highlight__emoji")
		emoji.AppendChild(textNode(h.Comment.Emoji))
		body.AppendChild(emoji)
	}
	if strings.TrimSpace(h.Comment.Text) != "" {
		comment := element(atom.Div, "highlight__comment")
		nodes, err := markdown(comment, h.Comment.Text)
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			comment.AppendChild(n)
		}
		body.AppendChild(comment)
	}

	if ex := Excerpt(h.Content.Text); ex != "" {
		quote := element(atom.Blockquote, "highlight__excerpt")
		quote.AppendChild(textNode(ex))
		body.AppendChild(quote)
	}
	if h.Content.Image != "" {
		img := element(atom.Img, "highlight__image")
		img.Attr = append(img.Attr,
			html.Attribute{Key: "src", Val: h.Content.Image},
			html.Attribute{Key: "alt", Val: "Screenshot"},
		)
		body.AppendChild(img)
	}

	page := element(atom.A, "highlight__location")
	page.Attr = append(page.Attr, html.Attribute{Key: "href", Val: "#" + hash})
	page.AppendChild(textNode("Page " + strconv.Itoa(h.Position.PageNumber)))
	li.AppendChild(page)

	return li, nil
}

// Excerpt returns the first ExcerptRunes runes of text, trimmed, with a
// trailing ellipsis. Empty text yields "".
func Excerpt(text string) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) > ExcerptRunes {
		runes = runes[:ExcerptRunes]
	}
	return strings.TrimSpace(string(runes)) + "…"
}

// markdown converts src to HTML nodes parsed in the context of parent.
func markdown(parent *html.Node, src string) ([]*html.Node, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return nil, fmt.Errorf("render comment: %w", err)
	}
	nodes, err := html.ParseFragment(&buf, parent)
	if err != nil {
		return nil, fmt.Errorf("parse comment html: %w", err)
	}
	return nodes, nil
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
