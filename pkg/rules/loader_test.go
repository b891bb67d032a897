package rules

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

func TestLoadFS_ParsesRuleFiles(t *testing.T) {
	t.Parallel()

	store, err := LoadFS(fstest.MapFS{
		"usuario.yaml": &fstest.MapFile{Data: mustRead(t, "testdata/usuario.yaml")},
		"README.md":    &fstest.MapFile{Data: []byte("ignored")},
	})
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}

	if diff := cmp.Diff([]string{"usuario"}, store.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	form, ok := store.Form("usuario")
	if !ok {
		t.Fatalf("form usuario missing")
	}
	want := []toggle.Rule{toggle.DefaultRule()}
	if diff := cmp.Diff(want, form.Rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
	presenter, err := form.Presenter()
	if err != nil {
		t.Fatalf("Presenter: %v", err)
	}
	if presenter != toggle.InlineStyle {
		t.Fatalf("expected inline style presenter, got %T", presenter)
	}
}

func TestLoadFS_NilFS(t *testing.T) {
	t.Parallel()

	store, err := LoadFS(nil)
	if err != nil {
		t.Fatalf("LoadFS(nil): %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d forms", store.Len())
	}
}

func TestLoadFS_RejectsDuplicateForms(t *testing.T) {
	t.Parallel()

	data := mustRead(t, "testdata/usuario.yaml")
	_, err := LoadFS(fstest.MapFS{
		"a.yaml": &fstest.MapFile{Data: data},
		"b.yml":  &fstest.MapFile{Data: data},
	})
	if err == nil || !strings.Contains(err.Error(), "duplicate form") {
		t.Fatalf("expected duplicate form error, got %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "invalid yaml",
			doc:  "forms: [",
			want: "rules: parse",
		},
		{
			name: "no rules",
			doc:  "forms:\n  usuario: {}\n",
			want: "has no rules",
		},
		{
			name: "missing dependent",
			doc:  "forms:\n  usuario:\n    rules:\n      - controller: \"#id_rol\"\n",
			want: "rule 0",
		},
		{
			name: "unknown presentation",
			doc:  "forms:\n  usuario:\n    presentation: fade\n    rules:\n      - controller: a\n        dependent: b\n",
			want: "unknown presentation",
		},
		{
			name: "repeated rule",
			doc:  "forms:\n  usuario:\n    rules:\n      - {name: x, controller: a, dependent: b}\n      - {name: x, controller: c, dependent: d}\n",
			want: "repeats rule",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tc.doc), "inline.yaml")
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParse_ClassPresentation(t *testing.T) {
	t.Parallel()

	doc := "forms:\n  usuario:\n    presentation: \" Class\"\n    hidden_class: is-hidden\n    rules:\n      - controller: \"#id_rol\"\n        dependent: .field-especialidad\n        match: MECANICO\n"
	forms, err := Parse([]byte(doc), "inline.yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := forms[0].Presentation; got != "class" {
		t.Fatalf("presentation = %q, want class", got)
	}
	presenter, err := forms[0].Presenter()
	if err != nil {
		t.Fatalf("Presenter: %v", err)
	}
	if diff := cmp.Diff(toggle.ClassToggle{Class: "is-hidden"}, presenter); diff != "" {
		t.Fatalf("presenter mismatch (-want +got):\n%s", diff)
	}
}
