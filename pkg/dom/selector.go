package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// CompileSelector parses a CSS selector group. Comma separated alternatives
// match as a union.
func CompileSelector(selector string) (cascadia.SelectorGroup, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, fmt.Errorf("dom: empty selector %q", selector)
	}
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("dom: selector %q: %w", selector, err)
	}
	return group, nil
}

// queryAll returns matching element nodes below root in document order.
func queryAll(root *html.Node, group cascadia.SelectorGroup) []*html.Node {
	return cascadia.QueryAll(root, group)
}
