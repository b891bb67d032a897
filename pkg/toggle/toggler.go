package toggle

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Option configures a Toggler.
type Option func(*Toggler)

// WithPresenter overrides the default inline style presenter.
func WithPresenter(presenter Presenter) Option {
	return func(t *Toggler) {
		if presenter != nil {
			t.presenter = presenter
		}
	}
}

// WithLogger attaches a logger. Missing elements are only reported at debug
// level; presenter failures are reported as warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Toggler) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Toggler keeps a dependent element's visibility in sync with a controller.
// Evaluations are serialized, so change notifications delivered from
// different goroutines never interleave.
type Toggler struct {
	rule      Rule
	resolver  Resolver
	presenter Presenter
	logger    *zap.Logger

	mu         sync.Mutex
	controller Controller
	dependent  Element
	state      State
	bound      bool
	cancel     func()
}

// New constructs a Toggler. Elements are resolved lazily, on the first
// Evaluate or on Bind.
func New(rule Rule, resolver Resolver, options ...Option) *Toggler {
	t := &Toggler{
		rule:      rule,
		resolver:  resolver,
		presenter: InlineStyle,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
	t.logger = t.logger.Named("toggle").With(zap.String("rule", rule.Key()))
	return t
}

// Rule returns the rule driving the toggler.
func (t *Toggler) Rule() Rule {
	return t.rule
}

// State returns the last applied state.
func (t *Toggler) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Evaluate applies the rule against the controller's current value. When
// either element is absent it does nothing and returns StateUnknown.
func (t *Toggler) Evaluate() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resolveLocked()
	return t.evaluateLocked()
}

// Bind evaluates the rule once and then re-evaluates it on every controller
// change. Calling Bind on a bound toggler does nothing. Only context and
// readiness failures are returned; missing elements are not errors.
func (t *Toggler) Bind(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if waiter, ok := t.resolver.(Waiter); ok {
		if err := waiter.WaitReady(ctx); err != nil {
			return fmt.Errorf("toggle: wait ready: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	if t.bound {
		t.mu.Unlock()
		return nil
	}
	t.bound = true
	t.resolveLocked()
	state := t.evaluateLocked()
	controller := t.controller
	t.mu.Unlock()

	if controller == nil {
		t.logger.Debug("controller not found, binding skipped",
			zap.String("selector", t.rule.ControllerSelector))
		return nil
	}

	observable, ok := controller.(Observable)
	if !ok {
		t.logger.Debug("controller does not report changes")
		return nil
	}
	cancel := observable.OnChange(func() {
		t.Evaluate()
	})

	t.mu.Lock()
	if !t.bound {
		t.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		return nil
	}
	t.cancel = cancel
	t.mu.Unlock()

	t.logger.Debug("bound", zap.Stringer("state", state))
	return nil
}

// Unbind removes the change subscription. The current presentation is left
// untouched.
func (t *Toggler) Unbind() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.bound = false
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (t *Toggler) resolveLocked() {
	if t.resolver == nil {
		return
	}
	if t.controller == nil {
		if controller, ok := t.resolver.ResolveController(t.rule.ControllerSelector); ok {
			t.controller = controller
		}
	}
	if t.dependent == nil {
		if dependent, ok := t.resolver.ResolveDependent(t.rule.DependentSelector); ok {
			t.dependent = dependent
		}
	}
}

func (t *Toggler) evaluateLocked() State {
	if t.controller == nil || t.dependent == nil {
		return t.state
	}

	visible := t.rule.Matches(t.controller.Value())
	if err := t.presenter.Present(t.dependent, visible); err != nil {
		t.logger.Warn("present dependent", zap.Bool("visible", visible), zap.Error(err))
		return t.state
	}
	t.state = StateFor(visible)
	return t.state
}
