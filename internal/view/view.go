// Package view holds the rendered markup of one mounted page. A View is what the
// highlighter scans after render: it exposes the code blocks found in the
// markup and lets callers swap their contents in place.
package view

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HighlightedAttr marks a code block whose contents were already highlighted.
const HighlightedAttr = "data-highlighted"

// View is the parsed markup of a rendered page fragment.
type View struct {
	nodes []*html.Node
}

// CodeBlock is a <code> element nested in a <pre>.
type CodeBlock struct {
	node     *html.Node
	Language string
}

// New parses markup as a body fragment.
func New(markup []byte) (*View, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(markup), body)
	if err != nil {
		return nil, fmt.Errorf("parsing view markup: %w", err)
	}
	return &View{nodes: nodes}, nil
}

// Bytes renders the current state of the view.
func (v *View) Bytes() []byte {
	var buf bytes.Buffer
	for _, n := range v.nodes {
		// Rendering into a bytes.Buffer only fails on malformed trees, which
		// ParseFragment never produces.
		_ = html.Render(&buf, n)
	}
	return buf.Bytes()
}

// String renders the current state of the view.
func (v *View) String() string {
	return string(v.Bytes())
}

// Len returns the rendered size in bytes.
func (v *View) Len() int {
	return len(v.Bytes())
}

// CodeBlocks returns every <pre><code> block in document order.
func (v *View) CodeBlocks() []*CodeBlock {
	var blocks []*CodeBlock
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Code &&
			n.Parent != nil && n.Parent.DataAtom == atom.Pre {
			blocks = append(blocks, &CodeBlock{node: n, Language: languageOf(n)})
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range v.nodes {
		walk(n)
	}
	return blocks
}

// Text returns the raw source inside the block.
func (b *CodeBlock) Text() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(b.node)
	return sb.String()
}

// Highlighted reports whether the block was already replaced by highlighted markup.
func (b *CodeBlock) Highlighted() bool {
	_, ok := attr(b.node, HighlightedAttr)
	return ok
}

// Replace swaps the block's children for markup and marks it highlighted.
func (b *CodeBlock) Replace(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), b.node)
	if err != nil {
		return fmt.Errorf("parsing highlighted markup: %w", err)
	}
	for c := b.node.FirstChild; c != nil; {
		next := c.NextSibling
		b.node.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		b.node.AppendChild(n)
	}
	setAttr(b.node, HighlightedAttr, "true")
	return nil
}

// SetPreStyle sets the inline style of the <pre> wrapping the block.
func (b *CodeBlock) SetPreStyle(css string) {
	if b.node.Parent != nil {
		setAttr(b.node.Parent, "style", css)
	}
}

// languageOf reads "language-x" or "lang-x" from the class attribute.
func languageOf(n *html.Node) string {
	class, _ := attr(n, "class")
	for _, c := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(c, "language-"); ok {
			return lang
		}
		if lang, ok := strings.CutPrefix(c, "lang-"); ok {
			return lang
		}
	}
	return ""
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
