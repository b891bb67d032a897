package visibility

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

// RuleEvaluator reads the rule's controller field from the context and
// applies the rule's exact match.
//
// Field names support dot paths (`profile.rol`) against nested maps, exact
// dotted keys, and the `extras.` prefix to read from Context.Extras. A
// missing field reads as the empty string.
type RuleEvaluator struct{}

// New returns the default evaluator.
func New() *RuleEvaluator { return &RuleEvaluator{} }

func (e *RuleEvaluator) Eval(rule toggle.Rule, ctx Context) (bool, error) {
	field := strings.TrimSpace(rule.ControllerField)
	if field == "" {
		return false, fmt.Errorf("visibility: rule %q has no controller field", rule.Key())
	}
	value, _ := lookup(ctx, field)
	return rule.Matches(coerceString(value)), nil
}

func lookup(ctx Context, key string) (any, bool) {
	if strings.HasPrefix(strings.ToLower(key), "extras.") {
		return lookupMap(ctx.Extras, strings.TrimSpace(key[len("extras."):]))
	}
	return lookupMap(ctx.Values, key)
}

func lookupMap(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

// coerceString renders a form value the way a browser would submit it. Multi
// valued fields contribute their first value.
func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		if len(v) == 0 {
			return ""
		}
		return v[0]
	case []any:
		if len(v) == 0 {
			return ""
		}
		return coerceString(v[0])
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(value)
	}
}
