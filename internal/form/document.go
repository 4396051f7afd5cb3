package form

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/xkilldash9x/botctl/internal/action"
)

// Document is a read-only field source backed by a saved dashboard page. Only
// form controls (input, textarea, select) have a value; other elements with an
// id are reported as missing, like an element whose value is undefined.
type Document struct {
	values  map[string]string
	checked map[string][]string
	ids     []string
}

var _ action.Fields = (*Document)(nil)

// LoadDocument parses the HTML file at path.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	return ParseDocument(f)
}

// ParseDocument reads an HTML page and records the value of every form control
// with an id, the checked boxes of every named group, and which groups exist.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	d := &Document{
		values:  make(map[string]string),
		checked: make(map[string][]string),
	}
	d.walk(root)
	return d, nil
}

func (d *Document) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		d.visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.walk(c)
	}
}

func (d *Document) visit(n *html.Node) {
	if n.DataAtom == atom.Input {
		inputType := strings.ToLower(attr(n, "type"))
		name := attr(n, "name")
		if (inputType == "checkbox" || inputType == "radio") && name != "" {
			if _, ok := d.checked[name]; !ok {
				d.checked[name] = []string{}
			}
			if hasAttr(n, "checked") {
				d.checked[name] = append(d.checked[name], inputValue(n, inputType))
			}
		}
	}

	id := attr(n, "id")
	if id == "" {
		return
	}
	// getElementById returns the first match.
	if _, seen := d.values[id]; seen {
		return
	}

	var value string
	switch n.DataAtom {
	case atom.Input:
		value = inputValue(n, strings.ToLower(attr(n, "type")))
	case atom.Textarea:
		value = textContent(n)
	case atom.Select:
		value = selectValue(n)
	default:
		return
	}
	d.values[id] = value
	d.ids = append(d.ids, id)
}

func (d *Document) Value(id string) (string, bool) {
	v, ok := d.values[id]
	return v, ok
}

func (d *Document) Checked(name string) []string {
	group := d.checked[name]
	out := make([]string, len(group))
	copy(out, group)
	return out
}

// Group returns the checked values of group name. A group is defined when the
// page has at least one checkbox or radio button with that name.
func (d *Document) Group(name string) ([]string, bool) {
	group, ok := d.checked[name]
	if !ok {
		return nil, false
	}
	return append([]string{}, group...), true
}

// IDs returns the ids of the form controls in document order.
func (d *Document) IDs() []string {
	out := make([]string, len(d.ids))
	copy(out, d.ids)
	return out
}

func inputValue(n *html.Node, inputType string) string {
	v, ok := lookupAttr(n, "value")
	if !ok && (inputType == "checkbox" || inputType == "radio") {
		return "on"
	}
	return v
}

// selectValue is the value of the selected option, or of the first option when
// none is marked selected. The last selected option wins.
func selectValue(n *html.Node) string {
	var first, selected *html.Node
	var find func(*html.Node)
	find = func(c *html.Node) {
		for ; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Option:
				if first == nil {
					first = c
				}
				if hasAttr(c, "selected") {
					selected = c
				}
			case atom.Optgroup:
				find(c.FirstChild)
			}
		}
	}
	find(n.FirstChild)

	opt := selected
	if opt == nil {
		opt = first
	}
	if opt == nil {
		return ""
	}
	if v, ok := lookupAttr(opt, "value"); ok {
		return v
	}
	return strings.Join(strings.Fields(textContent(opt)), " ")
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return sb.String()
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := lookupAttr(n, key)
	return ok
}
