// Package rules loads toggle rules from YAML rule files and from OpenAPI
// request schemas annotated with the x-formtoggle extension.
package rules

import (
	"sort"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

// Form groups the rules bound on a single page or form.
type Form struct {
	Name string
	// Presentation names the presenter used for this form (style, class,
	// attribute). Empty means inline style.
	Presentation string
	HiddenClass  string
	Rules        []toggle.Rule
}

// Presenter returns the configured presenter.
func (f Form) Presenter() (toggle.Presenter, error) {
	return toggle.ParsePresentation(f.Presentation, f.HiddenClass)
}

// Store holds forms keyed by name.
type Store struct {
	forms map[string]Form
}

// NewStore builds a store from already validated forms. Later forms replace
// earlier ones with the same name.
func NewStore(forms ...Form) *Store {
	store := &Store{forms: make(map[string]Form, len(forms))}
	for _, form := range forms {
		store.forms[form.Name] = form
	}
	return store
}

// Form returns the form registered under name.
func (s *Store) Form(name string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[name]
	return form, ok
}

// Names lists the registered forms in sorted order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.forms))
	for name := range s.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of forms.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.forms)
}
