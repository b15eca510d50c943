package markup

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

func getText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

func cleanText(s string) string {
	s = removeNonPrintable(s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Text returns the text of every element in the region with whitespace runs
// collapsed into single spaces.
func (r Region) Text() string {
	var buffer strings.Builder
	for _, n := range r.nodes() {
		buffer.WriteString(getText(n))
	}
	return cleanText(buffer.String())
}

type Anchor struct {
	Name string
	Href string
}

// Anchors returns the text and href of every element in the region, elements
// with an unparsable href are skipped.
func (r Region) Anchors() []Anchor {
	anchors := []Anchor{}
	for _, n := range r.nodes() {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}

		link, err := url.Parse(href)
		if err != nil {
			continue
		}

		anchors = append(anchors, Anchor{
			Name: cleanText(getText(n)),
			Href: link.String(),
		})
	}
	return anchors
}
