// Package markup is the narrow view of an HTML page used by the parsers. It
// exposes regions located by css selectors, their text and their inline
// fragments without leaking the underlying html library.
package markup

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Region is a set of zero or more elements of a parsed page.
type Region struct {
	sel *goquery.Selection
}

// Parse parses raw markup and returns the region of the whole document.
func Parse(raw []byte) (Region, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return Region{}, err
	}
	return Region{sel: doc.Selection}, nil
}

func (r Region) nodes() []*html.Node {
	if r.sel == nil {
		return nil
	}
	return r.sel.Nodes
}

// Exists is true if the region matched at least one element.
func (r Region) Exists() bool {
	return len(r.nodes()) > 0
}

func (r Region) Len() int {
	return len(r.nodes())
}

// Find locates the descendants of the region matching the selector.
func (r Region) Find(selector string) Region {
	if r.sel == nil {
		return Region{}
	}
	return Region{sel: r.sel.Find(selector)}
}

func (r Region) First() Region {
	if r.sel == nil {
		return Region{}
	}
	return Region{sel: r.sel.First()}
}

func (r Region) Last() Region {
	if r.sel == nil {
		return Region{}
	}
	return Region{sel: r.sel.Last()}
}

// Each calls fn for every element of the region in document order.
func (r Region) Each(fn func(i int, elem Region)) {
	if r.sel == nil {
		return
	}
	r.sel.Each(func(i int, s *goquery.Selection) {
		fn(i, Region{sel: s})
	})
}

// Attr returns the attribute of the first element in the region.
func (r Region) Attr(name string) (string, bool) {
	if r.sel == nil {
		return "", false
	}
	return r.sel.Attr(name)
}

func (r Region) AttrOr(name, fallback string) string {
	val, ok := r.Attr(name)
	if !ok {
		return fallback
	}
	return val
}
