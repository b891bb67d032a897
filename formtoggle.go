// Package formtoggle shows a dependent form field only while a controller
// field holds a match value. The root package re-exports the common entry
// points; adapters live under pkg/.
package formtoggle

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formtoggle/pkg/browser"
	"github.com/goliatone/go-formtoggle/pkg/render"
	"github.com/goliatone/go-formtoggle/pkg/toggle"
	"github.com/goliatone/go-formtoggle/pkg/visibility"
)

// Rule aliases toggle.Rule.
type Rule = toggle.Rule

// State aliases toggle.State.
type State = toggle.State

// RenderOptions aliases render.Options.
type RenderOptions = render.Options

// Report aliases render.Report.
type Report = render.Report

// DefaultRule returns the role/specialty rule.
func DefaultRule() Rule {
	return toggle.DefaultRule()
}

// Bind binds rules against any resolver.
func Bind(ctx context.Context, resolver toggle.Resolver, rules []Rule, options ...toggle.Option) (*toggle.Group, error) {
	return toggle.BindAll(ctx, rules, resolver, options...)
}

// RenderHTML pre-renders rules into markup.
func RenderHTML(ctx context.Context, markup string, rules []Rule, opts RenderOptions) (string, Report, error) {
	return render.Apply(ctx, markup, rules, opts)
}

// Prune clears submitted values of dependents hidden by rules.
func Prune(values map[string]any, rules []Rule) ([]string, error) {
	return visibility.Prune(values, rules, visibility.New())
}

// LivePage is a browser page with bound rules.
type LivePage struct {
	Page  *browser.Page
	Group *toggle.Group
}

// BindPage opens url in Chrome and binds rules against the live DOM.
func BindPage(ctx context.Context, url string, rules []Rule, pageOpts []browser.Option, options ...toggle.Option) (*LivePage, error) {
	page, err := browser.Open(ctx, url, pageOpts...)
	if err != nil {
		return nil, err
	}
	group, err := toggle.BindAll(ctx, rules, page, options...)
	if err != nil {
		if closeErr := page.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		return nil, fmt.Errorf("formtoggle: bind page: %w", err)
	}
	return &LivePage{Page: page, Group: group}, nil
}

// Close unbinds every rule and closes the page.
func (p *LivePage) Close() error {
	if p == nil {
		return nil
	}
	p.Group.Unbind()
	return p.Page.Close()
}
