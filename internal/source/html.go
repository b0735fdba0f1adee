package source

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockElements end the current output line, like a browser's copy does.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figure: true, atom.Footer: true, atom.Form: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Tbody: true, atom.Td: true, atom.Tfoot: true, atom.Th: true, atom.Thead: true,
	atom.Tr: true, atom.Ul: true, atom.Label: true, atom.Option: true,
}

// skippedElements never contribute text.
var skippedElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Template: true, atom.Head: true,
}

// FromHTML converts a saved schedule page into the line-oriented text a
// copy from the browser would produce: every block element and table cell
// starts a new line; runs of whitespace inside a line collapse to one space.
func FromHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(r, maxInputBytes))
	if err != nil {
		return "", errors.Wrap(err, "parse schedule HTML")
	}

	w := &lineWriter{}
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			w.walk(n)
		}
	})
	w.flush()
	return strings.Join(w.lines, "\n"), nil
}

type lineWriter struct {
	cur   strings.Builder
	lines []string
}

func (w *lineWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.cur.WriteString(n.Data)
		return
	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return
		}
	}

	if n.Type == html.ElementNode && n.DataAtom == atom.Tr && isHeaderRow(n) {
		// Header rows stay on one line ("Class Nbr Section Component ..."),
		// which is how the parser recognises them.
		w.flush()
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.inline(c)
			w.cur.WriteString(" ")
		}
		w.flush()
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		w.flush()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
	if block {
		w.flush()
	}
}

// inline writes all text under n without line breaks.
func (w *lineWriter) inline(n *html.Node) {
	if n.Type == html.TextNode {
		w.cur.WriteString(n.Data)
		return
	}
	if n.Type == html.ElementNode && skippedElements[n.DataAtom] {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.inline(c)
	}
}

func isHeaderRow(tr *html.Node) bool {
	cells := 0
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.DataAtom != atom.Th {
			return false
		}
		cells++
	}
	return cells > 0
}

func (w *lineWriter) flush() {
	line := strings.Join(strings.Fields(w.cur.String()), " ")
	w.cur.Reset()
	if line != "" {
		w.lines = append(w.lines, line)
	}
}
