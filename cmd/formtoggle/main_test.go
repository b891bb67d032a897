package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formtoggle/internal/config"
	"github.com/goliatone/go-formtoggle/pkg/rules"
	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

const rulesFixture = "../../pkg/rules/testdata/usuario.yaml"
const openAPIFixture = "../../pkg/rules/testdata/usuarios.openapi.yaml"

func TestLoadRuleSet_Sources(t *testing.T) {
	ctx := context.Background()

	def := config.NewConfig()
	set, err := loadRuleSet(ctx, def)
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if diff := cmp.Diff([]toggle.Rule{toggle.DefaultRule()}, set.Rules); diff != "" {
		t.Fatalf("default rules mismatch (-want +got):\n%s", diff)
	}

	dir := config.NewConfig()
	dir.Rules.Dir = filepath.Dir(rulesFixture)
	set, err = loadRuleSet(ctx, dir)
	if err != nil {
		t.Fatalf("dir: %v", err)
	}
	if set.Source != filepath.Dir(rulesFixture)+"#usuario" {
		t.Fatalf("source = %q", set.Source)
	}

	api := config.NewConfig()
	api.Rules.OpenAPI = openAPIFixture
	api.Rules.Operation = "createUsuario"
	set, err = loadRuleSet(ctx, api)
	if err != nil {
		t.Fatalf("openapi: %v", err)
	}
	if diff := cmp.Diff([]toggle.Rule{toggle.DefaultRule()}, set.Rules); diff != "" {
		t.Fatalf("openapi rules mismatch (-want +got):\n%s", diff)
	}

	missing := config.NewConfig()
	missing.Rules.Dir = filepath.Dir(rulesFixture)
	missing.Rules.Form = "vehiculo"
	if _, err := loadRuleSet(ctx, missing); err == nil {
		t.Fatal("expected unknown form error")
	}
}

func TestWriteRuleFile_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	set := ruleSet{Rules: []toggle.Rule{toggle.DefaultRule()}, Presentation: toggle.PresentationStyle}
	if err := writeRuleFile(&buf, "usuario", set); err != nil {
		t.Fatalf("writeRuleFile: %v", err)
	}
	forms, err := rules.Parse(buf.Bytes(), "list.yaml")
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(set.Rules, forms[0].Rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestLintPath(t *testing.T) {
	ctx := context.Background()

	if got := lintPath(ctx, rulesFixture, ""); len(got) != 0 {
		t.Fatalf("expected clean rule file, got %v", got)
	}
	if got := lintPath(ctx, openAPIFixture, "createUsuario"); len(got) != 0 {
		t.Fatalf("expected clean openapi document, got %v", got)
	}
	if got := lintPath(ctx, openAPIFixture, ""); len(got) != 1 {
		t.Fatalf("expected missing operation violation, got %v", got)
	}

	loose := filepath.Join(t.TempDir(), "loose.yaml")
	content := "forms:\n  usuario:\n    rules:\n      - controller: \"#id_rol\"\n        dependent: .field-especialidad\n        match: \"MECANICO \"\n"
	if err := os.WriteFile(loose, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := lintPath(ctx, loose, "")
	if len(got) != 2 {
		t.Fatalf("expected two violations, got %v", got)
	}
	if !strings.Contains(got[1].message, "compared exactly") {
		t.Fatalf("unexpected violation %v", got[1])
	}
}

type fakeStates struct {
	calls  int
	states []map[string]toggle.State
}

func (f *fakeStates) States() map[string]toggle.State {
	idx := f.calls
	if idx >= len(f.states) {
		idx = len(f.states) - 1
	}
	f.calls++
	return f.states[idx]
}

func TestWatchStates_ReportsChanges(t *testing.T) {
	src := &fakeStates{states: []map[string]toggle.State{
		{"especialidad": toggle.StateHidden},
		{"especialidad": toggle.StateHidden},
		{"especialidad": toggle.StateVisible},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var reports []map[string]toggle.State
	if err := watchStates(ctx, src, 10*time.Millisecond, func(states map[string]toggle.State) {
		reports = append(reports, states)
	}); err != nil {
		t.Fatalf("watchStates: %v", err)
	}

	want := []map[string]toggle.State{
		{"especialidad": toggle.StateHidden},
		{"especialidad": toggle.StateVisible},
	}
	if diff := cmp.Diff(want, reports); diff != "" {
		t.Fatalf("reports mismatch (-want +got):\n%s", diff)
	}
}

func TestWatchStates_RejectsNonPositiveInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeStates{states: []map[string]toggle.State{{"especialidad": toggle.StateHidden}}}
	for _, interval := range []time.Duration{0, -time.Second} {
		reported := false
		err := watchStates(ctx, src, interval, func(map[string]toggle.State) { reported = true })
		if err == nil || !strings.Contains(err.Error(), "interval must be positive") {
			t.Fatalf("interval %s: expected error, got %v", interval, err)
		}
		if reported {
			t.Fatalf("interval %s: unexpected report", interval)
		}
	}
}

func TestWatchCmd_RejectsZeroInterval(t *testing.T) {
	cmd := newWatchCmd()
	cmd.SetArgs([]string{"--interval", "0s", "http://127.0.0.1:1/usuarios/nuevo"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SilenceUsage = true

	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "--interval must be positive") {
		t.Fatalf("expected interval error, got %v", err)
	}
}
