package render

import (
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

// Options describe per-request data used while pre-rendering a page.
type Options struct {
	// Values overrides controller values before the rules run, keyed by the
	// controller selector (e.g. "#id_rol"). Selectors that match nothing are
	// ignored.
	Values map[string]string
	// Presentation selects the presenter applied to dependents. Empty means
	// inline style.
	Presentation toggle.Presentation
	// HiddenClass is used by the class presentation.
	HiddenClass string
	// ScriptURL, when set, appends a deferred runtime script tag to the body
	// unless the page already loads it.
	ScriptURL string
	Logger    *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger.Named("render")
}

func (o Options) presentation() toggle.Presentation {
	name := strings.ToLower(strings.TrimSpace(string(o.Presentation)))
	if name == "" {
		return toggle.PresentationStyle
	}
	return toggle.Presentation(name)
}
