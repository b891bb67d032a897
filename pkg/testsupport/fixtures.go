// Package testsupport holds fixtures and golden helpers shared by package
// tests.
package testsupport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formtoggle/pkg/dom"
)

// TabularForm renders the specialty row the way the stacked admin layout does.
func TabularForm(role string) string {
	return fmt.Sprintf(`<html><body><form method="post">
<div class="form-row field-rol"><select name="rol" id="id_rol">%s</select></div>
<div class="form-row field-especialidad"><select name="especialidad" id="id_especialidad">
<option value="">---------</option><option value="MOTOR">Motor</option></select></div>
</form></body></html>`, roleOptions(role))
}

// GroupedForm renders the specialty row the way the grouped fieldset layout
// does.
func GroupedForm(role string) string {
	return fmt.Sprintf(`<html><body><form method="post"><fieldset>
<div class="form-group field-rol"><select name="rol" id="id_rol">%s</select></div>
<div class="form-group field-especialidad"><input name="especialidad" id="id_especialidad" value="MOTOR"></div>
</fieldset></form></body></html>`, roleOptions(role))
}

// Roles lists the role choices rendered by the fixtures.
var Roles = []string{"COORDINACION", "SUPERVISOR", "MECANICO", "CHOFER", "GUARDIA", "JEFE_TALLER"}

func roleOptions(selected string) string {
	var buf bytes.Buffer
	buf.WriteString(`<option value="">---------</option>`)
	for _, role := range Roles {
		if role == selected {
			fmt.Fprintf(&buf, `<option value="%s" selected>%s</option>`, role, role)
			continue
		}
		fmt.Fprintf(&buf, `<option value="%s">%s</option>`, role, role)
	}
	return buf.String()
}

// MustParse parses markup into a document.
func MustParse(t *testing.T, markup string) *dom.Document {
	t.Helper()

	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("parse document: %v", err)
	}
	return doc
}

// MustQuery returns the first element matching selector.
func MustQuery(t *testing.T, doc *dom.Document, selector string) *dom.Element {
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

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
