package toggle

import (
	"context"
	"fmt"
)

// Group binds several independent rules against the same resolver.
type Group struct {
	togglers []*Toggler
}

// BindAll validates and binds every rule. On failure the rules bound so far
// are unbound again.
func BindAll(ctx context.Context, rules []Rule, resolver Resolver, options ...Option) (*Group, error) {
	group := &Group{togglers: make([]*Toggler, 0, len(rules))}
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			group.Unbind()
			return nil, fmt.Errorf("toggle: rule %q: %w", rule.Key(), err)
		}
		t := New(rule, resolver, options...)
		if err := t.Bind(ctx); err != nil {
			group.Unbind()
			return nil, fmt.Errorf("toggle: bind %q: %w", rule.Key(), err)
		}
		group.togglers = append(group.togglers, t)
	}
	return group, nil
}

// Togglers returns the bound togglers in rule order.
func (g *Group) Togglers() []*Toggler {
	if g == nil {
		return nil
	}
	return append([]*Toggler(nil), g.togglers...)
}

// States reports the current state of every rule keyed by Rule.Key.
func (g *Group) States() map[string]State {
	if g == nil {
		return nil
	}
	out := make(map[string]State, len(g.togglers))
	for _, t := range g.togglers {
		out[t.Rule().Key()] = t.State()
	}
	return out
}

// Unbind releases every change subscription.
func (g *Group) Unbind() {
	if g == nil {
		return
	}
	for _, t := range g.togglers {
		t.Unbind()
	}
}
