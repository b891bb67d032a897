package toggle

import (
	"errors"
	"sync"
)

type fakeController struct {
	mu        sync.Mutex
	value     string
	listeners map[int]func()
	nextID    int
}

func newController(value string) *fakeController {
	return &fakeController{value: value, listeners: make(map[int]func())}
}

func (c *fakeController) Value() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

func (c *fakeController) OnChange(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *fakeController) change(value string) {
	c.mu.Lock()
	c.value = value
	listeners := make([]func(), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

func (c *fakeController) listenerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners)
}

// staticValue is a controller without change notifications.
type staticValue string

func (v staticValue) Value() string { return string(v) }

type fakeElement struct {
	styles  map[string]string
	classes map[string]bool
	attrs   map[string]string
	writes  int
	fail    error
}

func newElement() *fakeElement {
	return &fakeElement{
		styles:  map[string]string{},
		classes: map[string]bool{},
		attrs:   map[string]string{},
	}
}

func (e *fakeElement) SetStyle(property, value string) error {
	if e.fail != nil {
		return e.fail
	}
	e.writes++
	if value == "" {
		delete(e.styles, property)
		return nil
	}
	e.styles[property] = value
	return nil
}

func (e *fakeElement) SetClass(name string, enabled bool) error {
	if e.fail != nil {
		return e.fail
	}
	e.writes++
	if enabled {
		e.classes[name] = true
	} else {
		delete(e.classes, name)
	}
	return nil
}

func (e *fakeElement) SetAttribute(name, value string) error {
	if e.fail != nil {
		return e.fail
	}
	e.writes++
	e.attrs[name] = value
	return nil
}

func (e *fakeElement) RemoveAttribute(name string) error {
	if e.fail != nil {
		return e.fail
	}
	e.writes++
	delete(e.attrs, name)
	return nil
}

func (e *fakeElement) hidden() bool {
	return e.styles["display"] == "none"
}

var errRemote = errors.New("remote page gone")
