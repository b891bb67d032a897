// Package prompt collects form values in a terminal, asking dependent fields
// only while their toggle rule shows them.
package prompt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

// Choice is a selectable option.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Field describes one prompted value. Fields with choices are asked with a
// select prompt, the rest with a text input.
type Field struct {
	Name     string
	Label    string
	Help     string
	Default  string
	Choices  []Choice
	Required bool
}

func (f Field) message() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	OutputFormatJSON       OutputFormat = "json"
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Option configures a Form.
type Option func(*Form)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Form) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithLogger sets the logger handed to togglers.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Form asks fields in order. A field named as a rule's DependentField is only
// asked when the rule evaluates visible against the answers collected so far.
type Form struct {
	fields []Field
	rules  map[string]toggle.Rule
	driver PromptDriver
	logger *zap.Logger
}

// NewForm validates rules against fields and builds a form. Rules must name
// both their controller and dependent fields.
func NewForm(fields []Field, rules []toggle.Rule, options ...Option) (*Form, error) {
	form := &Form{
		fields: fields,
		rules:  make(map[string]toggle.Rule, len(rules)),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(form)
		}
	}
	if form.driver == nil {
		form.driver = NewSurveyDriver(nil, nil)
	}

	index := make(map[string]int, len(fields))
	for i, field := range fields {
		if field.Name == "" {
			return nil, fmt.Errorf("prompt: field %d has no name", i)
		}
		index[field.Name] = i
	}
	for _, rule := range rules {
		if rule.ControllerField == "" || rule.DependentField == "" {
			return nil, fmt.Errorf("prompt: rule %q must name controller and dependent fields", rule.Key())
		}
		ctrl, ok := index[rule.ControllerField]
		if !ok {
			return nil, fmt.Errorf("prompt: rule %q references unknown field %q", rule.Key(), rule.ControllerField)
		}
		dep, ok := index[rule.DependentField]
		if !ok {
			return nil, fmt.Errorf("prompt: rule %q references unknown field %q", rule.Key(), rule.DependentField)
		}
		if ctrl >= dep {
			return nil, fmt.Errorf("prompt: rule %q: %q must be asked before %q", rule.Key(), rule.ControllerField, rule.DependentField)
		}
		form.rules[rule.DependentField] = rule
	}
	return form, nil
}

// Run prompts every visible field and returns the collected values keyed by
// field name. Hidden dependents are left out.
func (f *Form) Run(ctx context.Context) (map[string]any, error) {
	values := make(map[string]any, len(f.fields))
	for _, field := range f.fields {
		if rule, ok := f.rules[field.Name]; ok && !f.visible(rule, values) {
			continue
		}
		value, err := f.ask(ctx, field)
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}
	return values, nil
}

func (f *Form) visible(rule toggle.Rule, values map[string]any) bool {
	slot := &slot{}
	var controller toggle.Controller
	if raw, ok := values[rule.ControllerField]; ok {
		controller = answer(fmt.Sprint(raw))
	}
	t := toggle.New(rule, toggle.Static(controller, slot), toggle.WithLogger(f.logger.Named("prompt")))
	t.Evaluate()
	return slot.visible()
}

func (f *Form) ask(ctx context.Context, field Field) (string, error) {
	if len(field.Choices) == 0 {
		return f.driver.Input(ctx, InputConfig{
			Message: field.message(),
			Default: field.Default,
			Help:    field.Help,
			Validator: func(s string) error {
				if field.Required && strings.TrimSpace(s) == "" {
					return fmt.Errorf("%s is required", field.message())
				}
				return nil
			},
		})
	}

	options := make([]string, len(field.Choices))
	defaultIndex := -1
	for i, choice := range field.Choices {
		options[i] = choice.Label
		if options[i] == "" {
			options[i] = choice.Value
		}
		if choice.Value == field.Default {
			defaultIndex = i
		}
	}
	idx, err := f.driver.Select(ctx, SelectConfig{
		Message:      field.message(),
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         field.Help,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(field.Choices) {
		return "", fmt.Errorf("%w: %q index %d", ErrInvalidChoice, field.Name, idx)
	}
	return field.Choices[idx].Value, nil
}

// Encode writes values in the requested format.
func Encode(w io.Writer, values map[string]any, format OutputFormat) error {
	switch format {
	case "", OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(values); err != nil {
			return fmt.Errorf("prompt: encode json: %w", err)
		}
		return nil
	case OutputFormatPrettyText:
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if _, err := fmt.Fprintf(w, "%s: %v\n", key, values[key]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("prompt: unknown output format %q", format)
	}
}

type answer string

func (a answer) Value() string { return string(a) }

// slot is the prompt-side dependent. It records the inline display style the
// toggler assigns.
type slot struct {
	display string
}

func (s *slot) visible() bool { return s.display != "none" }

func (s *slot) SetStyle(property, value string) error {
	if property == "display" {
		s.display = value
	}
	return nil
}

func (s *slot) SetClass(string, bool) error       { return nil }
func (s *slot) SetAttribute(string, string) error { return nil }
func (s *slot) RemoveAttribute(string) error      { return nil }
