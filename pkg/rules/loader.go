package rules

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

type document struct {
	Forms map[string]formDocument `yaml:"forms"`
}

type formDocument struct {
	Presentation string        `yaml:"presentation"`
	HiddenClass  string        `yaml:"hidden_class"`
	Rules        []toggle.Rule `yaml:"rules"`
}

// LoadFS walks fsys and parses every YAML or JSON rule file. A nil fsys
// yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := NewStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isRuleFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("rules: read %s: %w", path, err)
		}
		forms, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, form := range forms {
			if _, exists := store.forms[form.Name]; exists {
				return fmt.Errorf("rules: duplicate form %q (file %s)", form.Name, path)
			}
			store.forms[form.Name] = form
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Parse decodes a single rule document. source is only used in errors.
func Parse(data []byte, source string) ([]Form, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("rules: parse %s: %w", source, err)
	}

	forms := make([]Form, 0, len(doc.Forms))
	for name, raw := range doc.Forms {
		form, err := normaliseForm(name, raw, source)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

func normaliseForm(name string, raw formDocument, source string) (Form, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Form{}, fmt.Errorf("rules: file %s defines an empty form name", source)
	}
	form := Form{
		Name:         name,
		Presentation: strings.ToLower(strings.TrimSpace(raw.Presentation)),
		HiddenClass:  strings.TrimSpace(raw.HiddenClass),
	}
	if _, err := form.Presenter(); err != nil {
		return Form{}, fmt.Errorf("rules: form %q (file %s): %w", name, source, err)
	}
	if len(raw.Rules) == 0 {
		return Form{}, fmt.Errorf("rules: form %q (file %s) has no rules", name, source)
	}

	seen := make(map[string]struct{}, len(raw.Rules))
	for i, rule := range raw.Rules {
		rule.ControllerSelector = strings.TrimSpace(rule.ControllerSelector)
		rule.DependentSelector = strings.TrimSpace(rule.DependentSelector)
		if err := rule.Validate(); err != nil {
			return Form{}, fmt.Errorf("rules: form %q rule %d (file %s): %w", name, i, source, err)
		}
		key := rule.Key()
		if _, dup := seen[key]; dup {
			return Form{}, fmt.Errorf("rules: form %q (file %s) repeats rule %q", name, source, key)
		}
		seen[key] = struct{}{}
		form.Rules = append(form.Rules, rule)
	}
	return form, nil
}

func isRuleFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
