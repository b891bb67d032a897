package dom

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

const tabularForm = `<!DOCTYPE html>
<html><head><title>Usuario</title></head><body>
<form id="usuario_form">
  <div class="form-row field-rol">
    <select name="rol" id="id_rol">
      <option value="">---------</option>
      <option value="COORDINACION">Coordinación</option>
      <option value="MECANICO">Mecánico</option>
      <option value="ADMIN">Admin</option>
      <option value="OTRO">Otro</option>
    </select>
  </div>
  <div class="form-row field-especialidad" style="color: red">
    <select name="especialidad" id="id_especialidad">
      <option value="GENERAL">General</option>
    </select>
  </div>
</form>
</body></html>`

const groupedForm = `<form>
  <div class="form-group field-rol"><input id="id_rol" name="rol" value="MECANICO"></div>
  <div class="form-group field-especialidad"><input name="especialidad"></div>
</form>`

func mustParse(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := ParseString(markup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func mustQuery(t *testing.T, doc *Document, selector string) *Element {
	t.Helper()
	el, err := doc.Query(selector)
	if err != nil {
		t.Fatalf("query %q: %v", selector, err)
	}
	if el == nil {
		t.Fatalf("query %q: no match", selector)
	}
	return el
}

func TestSelectValueSemantics(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<select id="a"><option>First  one</option><option value="b">B</option></select>
<select id="c"><option value="x">X</option><option value="y" selected>Y</option></select>
<select id="m" multiple><option value="x">X</option></select>
<textarea id="t">notes</textarea>
<input id="i" value="v">`)

	tests := map[string]string{
		"#a": "First one",
		"#c": "y",
		"#m": "",
		"#t": "notes",
		"#i": "v",
	}
	for selector, want := range tests {
		if got := mustQuery(t, doc, selector).Value(); got != want {
			t.Fatalf("%s value = %q, want %q", selector, got, want)
		}
	}
}

func TestChangeDispatchesListeners(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, tabularForm)
	rol := mustQuery(t, doc, "#id_rol")

	calls := 0
	cancel := rol.OnChange(func() { calls++ })

	if err := rol.SetValue("ADMIN"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if calls != 0 {
		t.Fatalf("SetValue should not notify listeners")
	}
	if err := rol.Change("MECANICO"); err != nil {
		t.Fatalf("Change: %v", err)
	}
	if calls != 1 || rol.Value() != "MECANICO" {
		t.Fatalf("calls = %d value = %q", calls, rol.Value())
	}

	cancel()
	cancel()
	if err := rol.Change("ADMIN"); err != nil {
		t.Fatalf("Change: %v", err)
	}
	if calls != 1 {
		t.Fatalf("listener called after cancel")
	}

}

func TestSelectUnknownValueClearsSelection(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<select id="id_rol"><option value="ADMIN">Admin</option><option value="MECANICO" selected>Mecánico</option></select>`)
	rol := mustQuery(t, doc, "#id_rol")

	calls := 0
	rol.OnChange(func() { calls++ })

	if err := rol.Change("PILOTO"); err != nil {
		t.Fatalf("Change: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if got := rol.Value(); got != "" {
		t.Fatalf("value = %q, want empty", got)
	}
	if strings.Contains(doc.String(), "selected") {
		t.Fatalf("expected no selected option:\n%s", doc.String())
	}

	if err := rol.SetValue("ADMIN"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := rol.Value(); got != "ADMIN" {
		t.Fatalf("value = %q, want ADMIN", got)
	}
}

func TestChangeToMissingOptionHidesDependent(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<select id="id_rol"><option value="MECANICO" selected>Mecánico</option></select>
<div class="form-row field-especialidad"></div>`)

	toggler := toggle.New(toggle.DefaultRule(), doc)
	if err := toggler.Bind(context.Background()); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer toggler.Unbind()
	if toggler.State() != toggle.StateVisible {
		t.Fatalf("state = %s, want visible", toggler.State())
	}

	if err := mustQuery(t, doc, "#id_rol").Change("OTRO"); err != nil {
		t.Fatalf("Change: %v", err)
	}
	if toggler.State() != toggle.StateHidden {
		t.Fatalf("state = %s, want hidden", toggler.State())
	}
	if got := mustQuery(t, doc, ".field-especialidad").Style("display"); got != "none" {
		t.Fatalf("display = %q, want none", got)
	}
}

func TestInlineStyleEditing(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, tabularForm)
	row := mustQuery(t, doc, ".field-especialidad")

	if err := row.SetStyle("display", "none"); err != nil {
		t.Fatalf("SetStyle: %v", err)
	}
	if got := row.Style("display"); got != "none" {
		t.Fatalf("display = %q", got)
	}
	if got := row.Style("color"); got != "red" {
		t.Fatalf("color lost: %q", got)
	}
	if err := row.SetStyle("display", ""); err != nil {
		t.Fatalf("SetStyle: %v", err)
	}
	style, _ := row.Attr("style")
	if style != "color: red;" {
		t.Fatalf("style = %q", style)
	}
	if err := row.SetStyle("color", ""); err != nil {
		t.Fatalf("SetStyle: %v", err)
	}
	if _, ok := row.Attr("style"); ok {
		t.Fatalf("expected empty style attribute to be removed")
	}
}

func TestClassAndAttributeEditing(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, groupedForm)
	row := mustQuery(t, doc, ".form-group.field-especialidad")

	if err := row.SetClass("fg-hidden", true); err != nil {
		t.Fatalf("SetClass: %v", err)
	}
	if !row.HasClass("fg-hidden") || !row.HasClass("form-group") {
		t.Fatalf("class list = %q", row.OuterHTML())
	}
	if err := row.SetClass("fg-hidden", false); err != nil {
		t.Fatalf("SetClass: %v", err)
	}
	if row.HasClass("fg-hidden") {
		t.Fatalf("class not removed")
	}
	if err := row.SetClass("two words", true); err == nil {
		t.Fatalf("expected error for invalid class")
	}

	if err := row.SetAttribute("hidden", ""); err != nil {
		t.Fatalf("SetAttribute: %v", err)
	}
	if _, ok := row.Attr("hidden"); !ok {
		t.Fatalf("hidden attribute missing")
	}
	if err := row.RemoveAttribute("hidden"); err != nil {
		t.Fatalf("RemoveAttribute: %v", err)
	}
	if _, ok := row.Attr("hidden"); ok {
		t.Fatalf("hidden attribute still present")
	}
}

func TestQueryAlternativesUseDocumentOrder(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<div class="form-group field-especialidad" id="first"></div>
<div class="form-row field-especialidad" id="second"></div>`)

	el := mustQuery(t, doc, toggle.DefaultDependentSelector)
	if id, _ := el.Attr("id"); id != "first" {
		t.Fatalf("expected first element in document order, got %q", id)
	}

	all, err := doc.QueryAll(toggle.DefaultDependentSelector)
	if err != nil {
		t.Fatalf("QueryAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("QueryAll returned %d elements", len(all))
	}

	missing, err := doc.Query("#nope")
	if err != nil || missing != nil {
		t.Fatalf("expected no match, got %v %v", missing, err)
	}
}

func TestToggleAgainstDocument(t *testing.T) {
	t.Parallel()

	for name, markup := range map[string]string{"tabular": tabularForm, "grouped": groupedForm} {
		markup := markup
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t, markup)
			rol := mustQuery(t, doc, "#id_rol")
			row := mustQuery(t, doc, toggle.DefaultDependentSelector)

			toggler := toggle.New(toggle.DefaultRule(), doc)
			if err := toggler.Bind(context.Background()); err != nil {
				t.Fatalf("Bind: %v", err)
			}
			defer toggler.Unbind()

			initial := rol.Value() == "MECANICO"
			if got := row.Style("display") != "none"; got != initial {
				t.Fatalf("initial visibility = %v, want %v", got, initial)
			}

			if rol.Tag() == "select" {
				if err := rol.Change("MECANICO"); err != nil {
					t.Fatalf("Change: %v", err)
				}
				if row.Style("display") != "" {
					t.Fatalf("expected visible after change to MECANICO")
				}
				if err := rol.Change("OTRO"); err != nil {
					t.Fatalf("Change: %v", err)
				}
				if row.Style("display") != "none" {
					t.Fatalf("expected hidden after change to OTRO")
				}
			}
		})
	}
}

func TestToggleWithoutElements(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<form><input id="id_username"></form>`)
	before := doc.String()

	toggler := toggle.New(toggle.DefaultRule(), doc)
	if err := toggler.Bind(context.Background()); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if toggler.State() != toggle.StateUnknown {
		t.Fatalf("state = %s", toggler.State())
	}
	if after := doc.String(); after != before {
		t.Fatalf("document mutated:\n%s", after)
	}
}

func TestRenderAndAppend(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, tabularForm)
	body := doc.Body()
	if body == nil {
		t.Fatalf("body missing")
	}
	if err := body.AppendHTML(`<script src="/runtime/formtoggle.js" defer></script>`); err != nil {
		t.Fatalf("AppendHTML: %v", err)
	}
	if !strings.Contains(doc.String(), `<script src="/runtime/formtoggle.js" defer=""></script>`) {
		t.Fatalf("script not rendered:\n%s", doc.String())
	}
}
