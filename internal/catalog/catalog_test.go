package catalog

import (
	"testing"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

func TestUsuarioFields_MatchDefaultRule(t *testing.T) {
	rule := toggle.DefaultRule()
	index := map[string]int{}
	for i, field := range UsuarioFields() {
		index[field.Name] = i
	}
	ctrl, ok := index[rule.ControllerField]
	if !ok {
		t.Fatalf("controller field %q missing", rule.ControllerField)
	}
	dep, ok := index[rule.DependentField]
	if !ok {
		t.Fatalf("dependent field %q missing", rule.DependentField)
	}
	if ctrl >= dep {
		t.Fatalf("controller must precede dependent")
	}
	if Label(Roles, rule.MatchValue) != "Mecánico" {
		t.Fatalf("match value %q is not a role", rule.MatchValue)
	}
}

func TestLabel_FallsBackToValue(t *testing.T) {
	if got := Label(Especialidades, "MOTOR"); got != "Motor y transmisión" {
		t.Fatalf("Label = %q", got)
	}
	if got := Label(Especialidades, "OTRO"); got != "OTRO" {
		t.Fatalf("Label = %q", got)
	}
}
