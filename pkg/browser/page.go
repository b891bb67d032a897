// Package browser adapts a live Chrome page, driven over the DevTools
// protocol, to the toggle element contracts. Controller changes made by the
// user in the page are forwarded to Go through a page binding.
package browser

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
	"go.uber.org/zap"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

// Page is a navigated browser tab implementing toggle.Resolver and
// toggle.Waiter.
type Page struct {
	page    *rod.Page
	browser *rod.Browser
	owned   bool
	cfg     Config
	logger  *zap.Logger

	mu       sync.Mutex
	bindings []func() error
}

var (
	_ toggle.Resolver = (*Page)(nil)
	_ toggle.Waiter   = (*Page)(nil)
)

var bindingSeq atomic.Int64

// Open connects to (or launches) a browser and opens url in a new tab.
func Open(ctx context.Context, url string, opts ...Option) (*Page, error) {
	o := options{cfg: DefaultConfig(), logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	logger := o.logger.Named("browser")

	controlURL := o.cfg.ControlURL
	owned := false
	if controlURL == "" {
		launched, err := launcher.New().Headless(o.cfg.Headless).Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		controlURL = launched
		owned = true
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	p, err := b.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		if owned {
			_ = b.Close()
		}
		return nil, fmt.Errorf("browser: open %s: %w", url, err)
	}
	logger.Debug("page opened", zap.String("url", url), zap.Bool("launched", owned))

	return &Page{
		page:    p,
		browser: b,
		owned:   owned,
		cfg:     o.cfg,
		logger:  logger,
	}, nil
}

// FromRodPage wraps a page managed by the caller. Close only releases the
// bindings installed by this package.
func FromRodPage(p *rod.Page, logger *zap.Logger) *Page {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Page{page: p, cfg: DefaultConfig(), logger: logger.Named("browser")}
}

// WaitReady blocks until the page fired its load event.
func (p *Page) WaitReady(ctx context.Context) error {
	page := p.page.Context(ctx)
	if p.cfg.LoadTimeout > 0 {
		page = page.Timeout(p.cfg.LoadTimeout)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("browser: wait load: %w", err)
	}
	return nil
}

// ResolveController implements toggle.Resolver. Lookups never wait for
// elements to appear.
func (p *Page) ResolveController(selector string) (toggle.Controller, bool) {
	el, ok := p.find(selector)
	if !ok {
		return nil, false
	}
	return el, true
}

// ResolveDependent implements toggle.Resolver.
func (p *Page) ResolveDependent(selector string) (toggle.Element, bool) {
	el, ok := p.find(selector)
	if !ok {
		return nil, false
	}
	return el, true
}

func (p *Page) find(selector string) (*Element, bool) {
	found, el, err := p.page.Has(selector)
	if err != nil {
		p.logger.Debug("query failed", zap.String("selector", selector), zap.Error(err))
		return nil, false
	}
	if !found || el == nil {
		return nil, false
	}
	return &Element{page: p, el: el, selector: selector}, true
}

// Close removes page bindings and, when the browser was launched by Open,
// closes it.
func (p *Page) Close() error {
	p.mu.Lock()
	bindings := p.bindings
	p.bindings = nil
	p.mu.Unlock()

	for _, stop := range bindings {
		if err := stop(); err != nil {
			p.logger.Debug("stop binding", zap.Error(err))
		}
	}
	if p.browser == nil {
		return nil
	}
	if err := p.page.Close(); err != nil {
		p.logger.Debug("close page", zap.Error(err))
	}
	if p.owned {
		if err := p.browser.Close(); err != nil {
			return fmt.Errorf("browser: close: %w", err)
		}
	}
	return nil
}

func (p *Page) expose(fn func()) (func() error, string, error) {
	name := fmt.Sprintf("__formtoggleChange%d", bindingSeq.Add(1))
	stop, err := p.page.Expose(name, func(gson.JSON) (interface{}, error) {
		fn()
		return nil, nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("browser: expose %s: %w", name, err)
	}

	p.mu.Lock()
	p.bindings = append(p.bindings, stop)
	p.mu.Unlock()
	return stop, name, nil
}

// Element is a remote DOM element.
type Element struct {
	page     *Page
	el       *rod.Element
	selector string
}

var (
	_ toggle.Controller = (*Element)(nil)
	_ toggle.Observable = (*Element)(nil)
	_ toggle.Element    = (*Element)(nil)
)

// Value reads the live value property. Read failures yield an empty value.
func (e *Element) Value() string {
	value, err := e.el.Property("value")
	if err != nil {
		e.page.logger.Debug("read value", zap.String("selector", e.selector), zap.Error(err))
		return ""
	}
	if value.Nil() {
		return ""
	}
	return value.Str()
}

// OnChange forwards the element's change events to fn.
func (e *Element) OnChange(fn func()) func() {
	noop := func() {}
	if fn == nil {
		return noop
	}
	stop, name, err := e.page.expose(fn)
	if err != nil {
		e.page.logger.Warn("listen for changes", zap.String("selector", e.selector), zap.Error(err))
		return noop
	}
	_, err = e.el.Eval(`(name) => {
		const handler = () => { window[name](this.value); };
		this.__formtoggle = this.__formtoggle || {};
		this.__formtoggle[name] = handler;
		this.addEventListener('change', handler);
	}`, name)
	if err != nil {
		e.page.logger.Warn("install change listener", zap.String("selector", e.selector), zap.Error(err))
		_ = stop()
		return noop
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_, _ = e.el.Eval(`(name) => {
				const handler = this.__formtoggle && this.__formtoggle[name];
				if (handler) {
					this.removeEventListener('change', handler);
					delete this.__formtoggle[name];
				}
			}`, name)
			_ = stop()
		})
	}
}

// SetStyle writes an inline style property; an empty value removes it.
func (e *Element) SetStyle(property, value string) error {
	_, err := e.el.Eval(`(property, value) => {
		if (value === '') {
			this.style.removeProperty(property);
		} else {
			this.style.setProperty(property, value);
		}
	}`, property, value)
	if err != nil {
		return fmt.Errorf("browser: set style on %s: %w", e.selector, err)
	}
	return nil
}

// SetClass adds or removes a class token.
func (e *Element) SetClass(name string, enabled bool) error {
	_, err := e.el.Eval(`(name, enabled) => { this.classList.toggle(name, enabled); }`, name, enabled)
	if err != nil {
		return fmt.Errorf("browser: set class on %s: %w", e.selector, err)
	}
	return nil
}

// SetAttribute sets an attribute.
func (e *Element) SetAttribute(name, value string) error {
	_, err := e.el.Eval(`(name, value) => { this.setAttribute(name, value); }`, name, value)
	if err != nil {
		return fmt.Errorf("browser: set attribute on %s: %w", e.selector, err)
	}
	return nil
}

// RemoveAttribute removes an attribute.
func (e *Element) RemoveAttribute(name string) error {
	_, err := e.el.Eval(`(name) => { this.removeAttribute(name); }`, name)
	if err != nil {
		return fmt.Errorf("browser: remove attribute on %s: %w", e.selector, err)
	}
	return nil
}
