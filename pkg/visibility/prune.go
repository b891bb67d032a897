package visibility

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

// Prune removes the dependent field of every rule whose dependent is hidden
// for the given values. Rules without a DependentField are skipped. It
// returns the removed field names, sorted. values is modified in place.
func Prune(values map[string]any, rules []toggle.Rule, evaluator Evaluator) ([]string, error) {
	if len(values) == 0 || len(rules) == 0 {
		return nil, nil
	}
	if evaluator == nil {
		evaluator = New()
	}

	ctx := Context{Values: values}
	hidden := make(map[string]struct{})
	for _, rule := range rules {
		field := strings.TrimSpace(rule.DependentField)
		if field == "" {
			continue
		}
		visible, err := evaluator.Eval(rule, ctx)
		if err != nil {
			return nil, fmt.Errorf("visibility: prune %q: %w", rule.Key(), err)
		}
		if !visible {
			hidden[field] = struct{}{}
		}
	}

	var removed []string
	for field := range hidden {
		if deletePath(values, field) {
			removed = append(removed, field)
		}
	}
	sort.Strings(removed)
	return removed, nil
}

// PruneForm applies Prune to url.Values as posted by a browser form.
func PruneForm(form url.Values, rules []toggle.Rule, evaluator Evaluator) ([]string, error) {
	if len(form) == 0 {
		return nil, nil
	}
	values := FormValues(form)
	removed, err := Prune(values, rules, evaluator)
	if err != nil {
		return nil, err
	}
	for _, field := range removed {
		form.Del(field)
	}
	return removed, nil
}

// FormValues converts posted form values into a Context friendly map.
// Single valued fields become strings.
func FormValues(form url.Values) map[string]any {
	out := make(map[string]any, len(form))
	for key, vals := range form {
		switch len(vals) {
		case 0:
			out[key] = ""
		case 1:
			out[key] = vals[0]
		default:
			out[key] = append([]string(nil), vals...)
		}
	}
	return out
}

func deletePath(values map[string]any, path string) bool {
	if _, ok := values[path]; ok {
		delete(values, path)
		return true
	}
	parts := strings.Split(path, ".")
	current := values
	for i, part := range parts {
		if i == len(parts)-1 {
			if _, ok := current[part]; !ok {
				return false
			}
			delete(current, part)
			return true
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			return false
		}
		current = next
	}
	return false
}
