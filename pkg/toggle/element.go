package toggle

import "context"

// Controller is the element whose value drives a rule.
type Controller interface {
	Value() string
}

// Observable is implemented by controllers that can report value changes.
// The returned cancel function removes the listener.
type Observable interface {
	OnChange(fn func()) (cancel func())
}

// Element is the presentation surface of a dependent element. Presenters use
// whichever mechanism they need; adapters backed by remote pages may fail.
type Element interface {
	SetStyle(property, value string) error
	SetClass(name string, enabled bool) error
	SetAttribute(name, value string) error
	RemoveAttribute(name string) error
}

// Resolver locates the elements referenced by a rule. A false return means
// the element is not present on the current page.
type Resolver interface {
	ResolveController(selector string) (Controller, bool)
	ResolveDependent(selector string) (Element, bool)
}

// Waiter is implemented by resolvers whose markup becomes available
// asynchronously. Bind waits for it before resolving elements.
type Waiter interface {
	WaitReady(ctx context.Context) error
}

type staticResolver struct {
	controller Controller
	dependent  Element
}

// Static returns a Resolver that hands out the provided handles regardless of
// selector. Nil handles are reported as absent.
func Static(controller Controller, dependent Element) Resolver {
	return staticResolver{controller: controller, dependent: dependent}
}

func (r staticResolver) ResolveController(string) (Controller, bool) {
	return r.controller, r.controller != nil
}

func (r staticResolver) ResolveDependent(string) (Element, bool) {
	return r.dependent, r.dependent != nil
}
