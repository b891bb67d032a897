package toggle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRuleMatchesIsExact(t *testing.T) {
	t.Parallel()

	rule := DefaultRule()
	cases := map[string]bool{
		"MECANICO":  true,
		"mecanico":  false,
		" MECANICO": false,
		"MECANICO ": false,
		"ADMIN":     false,
		"":          false,
	}
	for value, want := range cases {
		if got := rule.Matches(value); got != want {
			t.Fatalf("Matches(%q) = %v, want %v", value, got, want)
		}
	}

	empty := NewRule("#a", "#b", "")
	if !empty.Matches("") {
		t.Fatalf("empty match value should match empty controller value")
	}
	if empty.Matches("x") {
		t.Fatalf("empty match value should not match %q", "x")
	}
}

func TestRuleValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultRule().Validate(); err != nil {
		t.Fatalf("default rule invalid: %v", err)
	}
	if err := NewRule("", "#b", "x").Validate(); err == nil {
		t.Fatalf("expected error for missing controller selector")
	}
	if err := NewRule("#a", " , ", "x").Validate(); err == nil {
		t.Fatalf("expected error for blank dependent selector")
	}
}

func TestSplitSelectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{DefaultDependentSelector, []string{".form-row.field-especialidad", ".form-group.field-especialidad"}},
		{`input[data-x="a,b"], #c`, []string{`input[data-x="a,b"]`, "#c"}},
		{"#only", []string{"#only"}},
		{" , ,", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitSelectors(tt.in)); diff != "" {
			t.Fatalf("SplitSelectors(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestRuleKey(t *testing.T) {
	t.Parallel()

	if got := DefaultRule().Key(); got != "especialidad" {
		t.Fatalf("expected named key, got %q", got)
	}
	if got := NewRule("#a", " #b ", "x").Key(); got != "#b" {
		t.Fatalf("expected dependent selector key, got %q", got)
	}
}
