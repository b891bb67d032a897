package dom

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

// Document is an in-memory HTML page. It resolves toggle elements with CSS
// selectors and records inline presentation changes so the page can be
// rendered back with the correct initial visibility.
type Document struct {
	mu        sync.RWMutex
	root      *html.Node
	listeners map[*html.Node]map[int]func()
	nextID    int

	// selects assigned a value none of their options carry
	unselected map[*html.Node]struct{}
}

var _ toggle.Resolver = (*Document)(nil)

// Parse reads a full HTML document or fragment.
func Parse(r io.Reader) (*Document, error) {
	if r == nil {
		return nil, fmt.Errorf("dom: reader is nil")
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{
		root:       root,
		listeners:  make(map[*html.Node]map[int]func()),
		unselected: make(map[*html.Node]struct{}),
	}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// Query returns the first element in document order matching any of the
// selector alternatives.
func (d *Document) Query(selector string) (*Element, error) {
	nodes, err := d.queryNodes(selector)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return &Element{doc: d, node: nodes[0]}, nil
}

// QueryAll returns every matching element in document order.
func (d *Document) QueryAll(selector string) ([]*Element, error) {
	nodes, err := d.queryNodes(selector)
	if err != nil {
		return nil, err
	}
	out := make([]*Element, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, &Element{doc: d, node: node})
	}
	return out, nil
}

// ResolveController implements toggle.Resolver. Invalid selectors resolve to
// nothing.
func (d *Document) ResolveController(selector string) (toggle.Controller, bool) {
	el, err := d.Query(selector)
	if err != nil || el == nil {
		return nil, false
	}
	return el, true
}

// ResolveDependent implements toggle.Resolver.
func (d *Document) ResolveDependent(selector string) (toggle.Element, bool) {
	el, err := d.Query(selector)
	if err != nil || el == nil {
		return nil, false
	}
	return el, true
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("dom: render: %w", err)
	}
	return nil
}

// String renders the document, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Body returns the first body element, or nil for documents without one.
func (d *Document) Body() *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	node := htmlquery.FindOne(d.root, "//body")
	if node == nil {
		return nil
	}
	return &Element{doc: d, node: node}
}

func (d *Document) queryNodes(selector string) ([]*html.Node, error) {
	group, err := CompileSelector(selector)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	return queryAll(d.root, group), nil
}

func (d *Document) addListener(node *html.Node, fn func()) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	if d.listeners[node] == nil {
		d.listeners[node] = make(map[int]func())
	}
	d.listeners[node][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.listeners[node], id)
			if len(d.listeners[node]) == 0 {
				delete(d.listeners, node)
			}
		})
	}
}

// dispatch runs listeners outside the document lock so they can read and
// mutate the document.
func (d *Document) dispatch(node *html.Node) {
	d.mu.RLock()
	registered := d.listeners[node]
	ids := make([]int, 0, len(registered))
	for id := range registered {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, registered[id])
	}
	d.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}
