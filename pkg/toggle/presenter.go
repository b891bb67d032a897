package toggle

import (
	"fmt"
	"strings"
)

// DefaultHiddenClass is applied by ClassToggle when no class is configured.
const DefaultHiddenClass = "fg-hidden"

// Presenter translates the visible flag into a concrete presentation change
// on the dependent element.
type Presenter interface {
	Present(el Element, visible bool) error
}

// PresenterFunc adapts a function into a Presenter.
type PresenterFunc func(el Element, visible bool) error

// Present delegates to the underlying function.
func (fn PresenterFunc) Present(el Element, visible bool) error {
	return fn(el, visible)
}

type inlineStyle struct{}

// InlineStyle clears the inline display property when visible and sets it to
// none when hidden.
var InlineStyle Presenter = inlineStyle{}

func (inlineStyle) Present(el Element, visible bool) error {
	if visible {
		return el.SetStyle("display", "")
	}
	return el.SetStyle("display", "none")
}

// ClassToggle adds Class while hidden and removes it while visible.
type ClassToggle struct {
	Class string
}

func (p ClassToggle) Present(el Element, visible bool) error {
	class := strings.TrimSpace(p.Class)
	if class == "" {
		class = DefaultHiddenClass
	}
	return el.SetClass(class, !visible)
}

type hiddenAttribute struct{}

// HiddenAttribute toggles the boolean hidden attribute.
var HiddenAttribute Presenter = hiddenAttribute{}

func (hiddenAttribute) Present(el Element, visible bool) error {
	if visible {
		return el.RemoveAttribute("hidden")
	}
	return el.SetAttribute("hidden", "")
}

// Presentation names a built-in presenter.
type Presentation string

const (
	PresentationStyle     Presentation = "style"
	PresentationClass     Presentation = "class"
	PresentationAttribute Presentation = "attribute"
)

// ParsePresentation returns the presenter registered under name. The class
// argument is only used by the class presenter. An empty name selects the
// inline style presenter.
func ParsePresentation(name, class string) (Presenter, error) {
	switch Presentation(strings.ToLower(strings.TrimSpace(name))) {
	case "", PresentationStyle:
		return InlineStyle, nil
	case PresentationClass:
		return ClassToggle{Class: class}, nil
	case PresentationAttribute:
		return HiddenAttribute, nil
	default:
		return nil, fmt.Errorf("toggle: unknown presentation %q", name)
	}
}
