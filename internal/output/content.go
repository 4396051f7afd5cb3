// Package output implements the single shared output region every click writes to.
package output

import (
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TrustedHTML is markup that a caller has explicitly vouched for. Only a
// TrustedHTML value can be shown as markup; plain strings are always text.
type TrustedHTML struct {
	markup string
}

// Trust marks markup as safe to insert verbatim. Call it only for markup that
// comes from a source you control, such as the bot's own admin API.
func Trust(markup string) TrustedHTML {
	return TrustedHTML{markup: markup}
}

// String returns the markup verbatim.
func (h TrustedHTML) String() string { return h.markup }

// Kind tells whether a Content holds text or markup.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindHTML
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHTML:
		return "html"
	default:
		return "empty"
	}
}

// Content is one rendering of a response: either text or trusted markup.
type Content struct {
	kind Kind
	text string
	html TrustedHTML
}

// Text returns text content, displayed as-is and never interpreted as markup.
func Text(s string) Content {
	return Content{kind: KindText, text: s}
}

// HTML returns markup content.
func HTML(h TrustedHTML) Content {
	return Content{kind: KindHTML, html: h}
}

// Kind reports what the content holds.
func (c Content) Kind() Kind { return c.kind }

// TextContent mirrors the DOM's textContent: the text itself, or the
// concatenated text nodes of the markup.
func (c Content) TextContent() string {
	switch c.kind {
	case KindText:
		return c.text
	case KindHTML:
		return extractText(c.html.markup)
	default:
		return ""
	}
}

// InnerHTML mirrors the DOM's innerHTML: the markup verbatim, or the text escaped.
func (c Content) InnerHTML() string {
	switch c.kind {
	case KindText:
		return textEscaper.Replace(c.text)
	case KindHTML:
		return c.html.markup
	default:
		return ""
	}
}

// textEscaper escapes the characters innerHTML serializes inside text nodes.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\u00a0", "&nbsp;")

// extractText walks the parsed fragment and joins its text nodes.
func extractText(markup string) string {
	nodes, err := xhtml.ParseFragment(strings.NewReader(markup), &xhtml.Node{
		Type:     xhtml.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return markup
	}

	var sb strings.Builder
	var walk func(n *xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return sb.String()
}
