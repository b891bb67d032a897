package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-formtoggle/internal/config"
	"github.com/goliatone/go-formtoggle/pkg/render"
	"github.com/goliatone/go-formtoggle/pkg/rules"
	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

// ruleSet is the resolved rule source together with its presentation.
type ruleSet struct {
	Source       string
	Rules        []toggle.Rule
	Presentation toggle.Presentation
	HiddenClass  string
}

func (r ruleSet) renderOptions(c *config.Config) render.Options {
	return render.Options{
		Presentation: r.Presentation,
		HiddenClass:  r.HiddenClass,
		ScriptURL:    c.Render.ScriptURL,
	}
}

// loadRuleSet resolves rules in priority order: OpenAPI document, rule
// directory, built-in default.
func loadRuleSet(ctx context.Context, c *config.Config) (ruleSet, error) {
	set := ruleSet{
		Presentation: c.Render.Presentation,
		HiddenClass:  c.Render.HiddenClass,
	}

	switch {
	case c.Rules.OpenAPI != "":
		data, err := os.ReadFile(c.Rules.OpenAPI)
		if err != nil {
			return ruleSet{}, fmt.Errorf("read openapi: %w", err)
		}
		derived, err := rules.FromOpenAPI(ctx, data, c.Rules.Operation)
		if err != nil {
			return ruleSet{}, err
		}
		set.Source = c.Rules.OpenAPI + "#" + c.Rules.Operation
		set.Rules = derived
	case c.Rules.Dir != "":
		store, err := rules.LoadFS(os.DirFS(c.Rules.Dir))
		if err != nil {
			return ruleSet{}, err
		}
		form, ok := store.Form(c.Rules.Form)
		if !ok {
			return ruleSet{}, fmt.Errorf("form %q not found in %s (have %v)", c.Rules.Form, c.Rules.Dir, store.Names())
		}
		set.Source = c.Rules.Dir + "#" + form.Name
		set.Rules = form.Rules
		if form.Presentation != "" {
			set.Presentation = toggle.Presentation(form.Presentation)
		}
		if form.HiddenClass != "" {
			set.HiddenClass = form.HiddenClass
		}
	default:
		set.Source = "default"
		set.Rules = []toggle.Rule{toggle.DefaultRule()}
	}
	return set, nil
}
