// Package render pre-renders toggle rules into HTML so the first paint shows
// the correct visibility before the browser runtime takes over.
package render

import (
	"context"
	"fmt"
	"html"
	"sort"

	"go.uber.org/zap"

	"github.com/goliatone/go-formtoggle/pkg/dom"
	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

// Attributes written on every resolved dependent. The runtime reads them to
// bind the same rule in the browser.
const (
	AttrController = "data-fg-toggle-controller"
	AttrMatch      = "data-fg-toggle-match"
	AttrMode       = "data-fg-toggle-mode"
	AttrClass      = "data-fg-toggle-class"
	AttrState      = "data-fg-toggle-state"
)

// Report summarises the outcome of Apply.
type Report struct {
	States map[string]toggle.State `json:"states"`
	// Missing lists rules whose controller or dependent was not found.
	Missing []string `json:"missing,omitempty"`
}

// Apply parses markup, evaluates rules against it and returns the updated
// HTML.
func Apply(ctx context.Context, markup string, rules []toggle.Rule, opts Options) (string, Report, error) {
	doc, err := dom.ParseString(markup)
	if err != nil {
		return "", Report{}, fmt.Errorf("render: %w", err)
	}
	report, err := ApplyDocument(ctx, doc, rules, opts)
	if err != nil {
		return "", Report{}, err
	}
	return doc.String(), report, nil
}

// ApplyDocument runs Apply against an already parsed document, mutating it in
// place.
func ApplyDocument(ctx context.Context, doc *dom.Document, rules []toggle.Rule, opts Options) (Report, error) {
	if doc == nil {
		return Report{}, fmt.Errorf("render: document is nil")
	}
	logger := opts.logger()

	presenter, err := toggle.ParsePresentation(string(opts.presentation()), opts.HiddenClass)
	if err != nil {
		return Report{}, fmt.Errorf("render: %w", err)
	}
	if err := overrideValues(doc, opts.Values, logger); err != nil {
		return Report{}, err
	}

	group, err := toggle.BindAll(ctx, rules, doc, toggle.WithPresenter(presenter), toggle.WithLogger(logger))
	if err != nil {
		return Report{}, fmt.Errorf("render: %w", err)
	}
	defer group.Unbind()

	report := Report{States: group.States()}
	for _, t := range group.Togglers() {
		rule := t.Rule()
		state := t.State()
		if state == toggle.StateUnknown {
			report.Missing = append(report.Missing, rule.Key())
			continue
		}
		if err := annotate(doc, rule, state, opts); err != nil {
			return Report{}, err
		}
	}
	sort.Strings(report.Missing)

	if opts.ScriptURL != "" {
		if err := appendScript(doc, opts.ScriptURL); err != nil {
			return Report{}, err
		}
	}
	return report, nil
}

func overrideValues(doc *dom.Document, values map[string]string, logger *zap.Logger) error {
	selectors := make([]string, 0, len(values))
	for selector := range values {
		selectors = append(selectors, selector)
	}
	sort.Strings(selectors)

	for _, selector := range selectors {
		el, err := doc.Query(selector)
		if err != nil {
			return fmt.Errorf("render: value override %q: %w", selector, err)
		}
		if el == nil {
			logger.Debug("value override target missing", zap.String("selector", selector))
			continue
		}
		if err := el.SetValue(values[selector]); err != nil {
			return fmt.Errorf("render: value override %q: %w", selector, err)
		}
	}
	return nil
}

func annotate(doc *dom.Document, rule toggle.Rule, state toggle.State, opts Options) error {
	el, err := doc.Query(rule.DependentSelector)
	if err != nil || el == nil {
		return err
	}
	attrs := [][2]string{
		{AttrController, rule.ControllerSelector},
		{AttrMatch, rule.MatchValue},
		{AttrMode, string(opts.presentation())},
		{AttrState, state.String()},
	}
	if opts.presentation() == toggle.PresentationClass {
		class := opts.HiddenClass
		if class == "" {
			class = toggle.DefaultHiddenClass
		}
		attrs = append(attrs, [2]string{AttrClass, class})
	}
	for _, attr := range attrs {
		if err := el.SetAttribute(attr[0], attr[1]); err != nil {
			return fmt.Errorf("render: annotate %q: %w", rule.Key(), err)
		}
	}
	return nil
}

func appendScript(doc *dom.Document, src string) error {
	scripts, err := doc.QueryAll("script[src]")
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	for _, script := range scripts {
		if existing, _ := script.Attr("src"); existing == src {
			return nil
		}
	}
	body := doc.Body()
	if body == nil {
		return fmt.Errorf("render: document has no body for runtime script")
	}
	tag := fmt.Sprintf(`<script src="%s" defer></script>`, html.EscapeString(src))
	if err := body.AppendHTML(tag); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
