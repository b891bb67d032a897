package formtoggle

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestRenderHTML_DefaultRule(t *testing.T) {
	markup := `<html><body>
<select id="id_rol"><option value="CHOFER" selected>Chofer</option><option value="MECANICO">Mecánico</option></select>
<div class="form-row field-especialidad">especialidad</div>
</body></html>`

	_, report, err := RenderHTML(context.Background(), markup, []Rule{DefaultRule()}, RenderOptions{
		Values: map[string]string{"#id_rol": "MECANICO"},
	})
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if got := report.States["especialidad"].String(); got != "visible" {
		t.Fatalf("state = %s, want visible", got)
	}
}

func TestPrune_ClearsHiddenSpecialty(t *testing.T) {
	values := map[string]any{"rol": "CHOFER", "especialidad": "MOTOR"}
	cleared, err := Prune(values, []Rule{DefaultRule()})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if diff := cmp.Diff([]string{"especialidad"}, cleared); diff != "" {
		t.Fatalf("cleared mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"rol": "CHOFER"}, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRules_AndOpenAPI(t *testing.T) {
	data, err := os.ReadFile("pkg/rules/testdata/usuario.yaml")
	if err != nil {
		t.Fatalf("read rules: %v", err)
	}
	store, err := LoadRules(fstest.MapFS{"usuario.yaml": &fstest.MapFile{Data: data}})
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	form, _ := store.Form("usuario")

	spec, err := os.ReadFile("pkg/rules/testdata/usuarios.openapi.yaml")
	if err != nil {
		t.Fatalf("read openapi: %v", err)
	}
	derived, err := RulesFromOpenAPI(context.Background(), spec, "createUsuario")
	if err != nil {
		t.Fatalf("RulesFromOpenAPI: %v", err)
	}
	if diff := cmp.Diff(form.Rules, derived); diff != "" {
		t.Fatalf("yaml and openapi rules differ (-yaml +openapi):\n%s", diff)
	}
}
