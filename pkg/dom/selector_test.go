package dom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestQuerySelectors(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<form id="f">
  <fieldset><input id="a" name="rol" data-label="it's"></fieldset>
  <div class="form-row field-especialidad" id="b" hidden></div>
  <div class="form-group field-especialidad" id="c"><input id="d" name="especialidad"></div>
</form>`)

	tests := []struct {
		in   string
		want []string
	}{
		{"#a", []string{"a"}},
		{"input#a", []string{"a"}},
		{".form-row.field-especialidad, .form-group.field-especialidad", []string{"b", "c"}},
		{".form-group.field-especialidad, .form-row.field-especialidad", []string{"b", "c"}},
		{"form > fieldset input[name=rol]", []string{"a"}},
		{`[data-label="it's"]`, []string{"a"}},
		{"[hidden]", []string{"b"}},
		{"form > input", nil},
	}
	for _, tt := range tests {
		els, err := doc.QueryAll(tt.in)
		if err != nil {
			t.Fatalf("QueryAll(%q) returned error: %v", tt.in, err)
		}
		var got []string
		for _, el := range els {
			id, _ := el.Attr("id")
			got = append(got, id)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("QueryAll(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestCompileSelectorRejectsInvalidSyntax(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "#", "[x", "a >"} {
		if _, err := CompileSelector(in); err == nil {
			t.Fatalf("CompileSelector(%q) expected error", in)
		}
	}
}

func TestResolveWithInvalidSelector(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `<select id="id_rol"></select>`)
	if _, ok := doc.ResolveController("[x"); ok {
		t.Fatalf("expected invalid selector to resolve to nothing")
	}
}
