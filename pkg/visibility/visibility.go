// Package visibility evaluates toggle rules against submitted or prefilled
// form values, without a document. Servers use it to decide which dependent
// fields were hidden when a form was posted.
package visibility

import "github.com/goliatone/go-formtoggle/pkg/toggle"

// Evaluator determines whether a rule's dependent field is visible given the
// current form values.
type Evaluator interface {
	Eval(rule toggle.Rule, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values typically holds the posted
// form while Extras lets callers inject request scoped data such as the
// current user's role.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule toggle.Rule, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(rule toggle.Rule, ctx Context) (bool, error) {
	return fn(rule, ctx)
}
