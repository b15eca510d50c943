package markup

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type FragmentKind int

const (
	TextFragment FragmentKind = iota
	IconFragment
	BreakFragment
)

// Fragment is one piece of inline content: a run of text, an inline icon or
// a line break.
type Fragment struct {
	Kind FragmentKind
	// Text is the raw text of a TextFragment.
	Text string
	// Src and Alt describe an IconFragment.
	Src string
	Alt string
}

func Text(s string) Fragment {
	return Fragment{Kind: TextFragment, Text: s}
}

func Icon(src, alt string) Fragment {
	return Fragment{Kind: IconFragment, Src: src, Alt: alt}
}

func Break() Fragment {
	return Fragment{Kind: BreakFragment}
}

// Fragments flattens the region into inline fragments in document order.
// Text is kept verbatim, images become icons and <br> becomes a break.
func (r Region) Fragments() []Fragment {
	var out []Fragment
	for _, n := range r.nodes() {
		out = appendFragments(out, n)
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func appendFragments(out []Fragment, n *html.Node) []Fragment {
	switch n.Type {
	case html.TextNode:
		return append(out, Text(n.Data))
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Img:
			return append(out, Icon(attr(n, "src"), attr(n, "alt")))
		case atom.Br:
			return append(out, Break())
		case atom.Script, atom.Style:
			return out
		}
	case html.CommentNode:
		return out
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		out = appendFragments(out, child)
	}
	return out
}
