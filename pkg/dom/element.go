package dom

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

// Element wraps a node of a Document. It satisfies toggle.Controller,
// toggle.Observable and toggle.Element.
type Element struct {
	doc  *Document
	node *html.Node
}

var (
	_ toggle.Controller = (*Element)(nil)
	_ toggle.Observable = (*Element)(nil)
	_ toggle.Element    = (*Element)(nil)
)

// Tag returns the lower-case element name.
func (e *Element) Tag() string {
	return e.node.Data
}

// Attr returns an attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return getAttr(e.node, name)
}

// Value returns the control value the way a browser form would submit it.
func (e *Element) Value() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()

	switch e.node.DataAtom {
	case atom.Select:
		if _, ok := e.doc.unselected[e.node]; ok {
			return ""
		}
		return selectValue(e.node)
	case atom.Textarea:
		return htmlquery.InnerText(e.node)
	default:
		value, _ := getAttr(e.node, "value")
		return value
	}
}

// SetValue changes the control value without notifying listeners, like a
// script assignment. Assigning a value no option carries leaves a select with
// no selection and an empty value.
func (e *Element) SetValue(value string) error {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	switch e.node.DataAtom {
	case atom.Select:
		if selectOption(e.node, value) {
			delete(e.doc.unselected, e.node)
		} else {
			e.doc.unselected[e.node] = struct{}{}
		}
	case atom.Textarea:
		for c := e.node.FirstChild; c != nil; {
			next := c.NextSibling
			e.node.RemoveChild(c)
			c = next
		}
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: value})
	default:
		setAttr(e.node, "value", value)
	}
	return nil
}

// Change sets the value and notifies change listeners, simulating a user
// edit.
func (e *Element) Change(value string) error {
	if err := e.SetValue(value); err != nil {
		return err
	}
	e.doc.dispatch(e.node)
	return nil
}

// OnChange registers fn to run after every Change.
func (e *Element) OnChange(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	return e.doc.addListener(e.node, fn)
}

// Style returns the inline value of a style property.
func (e *Element) Style(property string) string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()

	raw, _ := getAttr(e.node, "style")
	decls, err := parseStyle(raw)
	if err != nil {
		return ""
	}
	property = strings.ToLower(strings.TrimSpace(property))
	for _, decl := range decls {
		if decl.Property == property {
			return decl.Value
		}
	}
	return ""
}

// SetStyle writes an inline style property. An empty value removes it.
func (e *Element) SetStyle(property, value string) error {
	property = strings.ToLower(strings.TrimSpace(property))
	if property == "" {
		return fmt.Errorf("dom: style property is required")
	}

	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	raw, _ := getAttr(e.node, "style")
	decls, err := parseStyle(raw)
	if err != nil {
		return fmt.Errorf("dom: parse inline style: %w", err)
	}
	decls = setDeclaration(decls, property, strings.TrimSpace(value))
	if len(decls) == 0 {
		removeAttr(e.node, "style")
		return nil
	}
	setAttr(e.node, "style", formatStyle(decls))
	return nil
}

// HasClass reports whether the class list contains name.
func (e *Element) HasClass(name string) bool {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()

	raw, _ := getAttr(e.node, "class")
	for _, token := range strings.Fields(raw) {
		if token == name {
			return true
		}
	}
	return false
}

// SetClass adds or removes a class token.
func (e *Element) SetClass(name string, enabled bool) error {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("dom: invalid class name %q", name)
	}

	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	raw, _ := getAttr(e.node, "class")
	tokens := strings.Fields(raw)
	keep := tokens[:0]
	for _, token := range tokens {
		if token != name {
			keep = append(keep, token)
		}
	}
	if enabled {
		keep = append(keep, name)
	}
	if len(keep) == 0 {
		removeAttr(e.node, "class")
		return nil
	}
	setAttr(e.node, "class", strings.Join(keep, " "))
	return nil
}

// SetAttribute sets an attribute.
func (e *Element) SetAttribute(name, value string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("dom: attribute name is required")
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	setAttr(e.node, name, value)
	return nil
}

// RemoveAttribute removes an attribute if present.
func (e *Element) RemoveAttribute(name string) error {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	removeAttr(e.node, name)
	return nil
}

// AppendHTML parses markup as children of the element and appends them.
func (e *Element) AppendHTML(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		return fmt.Errorf("dom: parse fragment: %w", err)
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for _, node := range nodes {
		e.node.AppendChild(node)
	}
	return nil
}

// OuterHTML renders the element itself.
func (e *Element) OuterHTML() string {
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	return htmlquery.OutputHTML(e.node, true)
}

func selectValue(sel *html.Node) string {
	options := htmlquery.Find(sel, ".//option")
	for _, opt := range options {
		if _, ok := getAttr(opt, "selected"); ok {
			return optionValue(opt)
		}
	}
	if _, multiple := getAttr(sel, "multiple"); multiple {
		return ""
	}
	if len(options) > 0 {
		return optionValue(options[0])
	}
	return ""
}

// selectOption marks the first option carrying value as selected and reports
// whether one was found. Every other option loses its selected attribute.
func selectOption(sel *html.Node, value string) bool {
	options := htmlquery.Find(sel, ".//option")
	var match *html.Node
	for _, opt := range options {
		removeAttr(opt, "selected")
		if match == nil && optionValue(opt) == value {
			match = opt
		}
	}
	if match == nil {
		return false
	}
	setAttr(match, "selected", "")
	return true
}

func optionValue(opt *html.Node) string {
	if value, ok := getAttr(opt, "value"); ok {
		return value
	}
	return strings.Join(strings.Fields(htmlquery.InnerText(opt)), " ")
}

func getAttr(n *html.Node, name string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, name, value string) {
	for i, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) {
	keep := n.Attr[:0]
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == name {
			continue
		}
		keep = append(keep, attr)
	}
	n.Attr = keep
}
