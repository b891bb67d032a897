package toggle

import (
	"errors"
	"strings"
)

const (
	// DefaultControllerSelector targets the role selector rendered by the admin.
	DefaultControllerSelector = "#id_rol"
	// DefaultDependentSelector matches the specialty row in both admin markup
	// conventions (tabular rows and grouped fieldsets).
	DefaultDependentSelector = ".form-row.field-especialidad, .form-group.field-especialidad"
	// DefaultMatchValue is the role that requires a specialty.
	DefaultMatchValue = "MECANICO"
)

// Rule describes a single controller/dependent visibility toggle. Rules are
// values: togglers copy them and never mutate the copy.
type Rule struct {
	Name               string `yaml:"name" json:"name,omitempty"`
	ControllerSelector string `yaml:"controller" json:"controller"`
	DependentSelector  string `yaml:"dependent" json:"dependent"`
	MatchValue         string `yaml:"match" json:"match"`
	// ControllerField and DependentField name the submitted form fields behind
	// the selectors. They are optional and only used server side.
	ControllerField string `yaml:"controller_field,omitempty" json:"controllerField,omitempty"`
	DependentField  string `yaml:"dependent_field,omitempty" json:"dependentField,omitempty"`
}

// NewRule builds a rule from the three required parts.
func NewRule(controller, dependent, match string) Rule {
	return Rule{
		ControllerSelector: controller,
		DependentSelector:  dependent,
		MatchValue:         match,
	}
}

// DefaultRule returns the role/specialty rule used by the user admin form.
func DefaultRule() Rule {
	return Rule{
		Name:               "especialidad",
		ControllerSelector: DefaultControllerSelector,
		DependentSelector:  DefaultDependentSelector,
		MatchValue:         DefaultMatchValue,
		ControllerField:    "rol",
		DependentField:     "especialidad",
	}
}

// Matches reports whether value is exactly the configured match value.
func (r Rule) Matches(value string) bool {
	return value == r.MatchValue
}

// Key identifies the rule in reports and logs.
func (r Rule) Key() string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return name
	}
	return strings.TrimSpace(r.DependentSelector)
}

// Alternatives splits the dependent selector into its comma separated
// alternatives.
func (r Rule) Alternatives() []string {
	return SplitSelectors(r.DependentSelector)
}

// Validate reports structural problems with the rule. An empty match value is
// allowed and only matches an empty controller value.
func (r Rule) Validate() error {
	var errs []error
	if strings.TrimSpace(r.ControllerSelector) == "" {
		errs = append(errs, errors.New("toggle: controller selector is required"))
	}
	if len(SplitSelectors(r.DependentSelector)) == 0 {
		errs = append(errs, errors.New("toggle: dependent selector is required"))
	}
	return errors.Join(errs...)
}

// SplitSelectors splits a selector group on top level commas. Commas inside
// attribute brackets or quotes are preserved. Empty parts are dropped.
func SplitSelectors(group string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	flush := func(end int) {
		if part := strings.TrimSpace(group[start:end]); part != "" {
			parts = append(parts, part)
		}
	}
	for i := 0; i < len(group); i++ {
		ch := group[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '[':
			depth++
		case ch == ']':
			if depth > 0 {
				depth--
			}
		case ch == ',' && depth == 0:
			flush(i)
			start = i + 1
		}
	}
	flush(len(group))
	return parts
}
