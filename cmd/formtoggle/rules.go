package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formtoggle/pkg/rules"
	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and lint rule sources",
	}
	cmd.AddCommand(newRulesListCmd(), newRulesLintCmd())
	return cmd
}

func newRulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the resolved rules as a rule file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadRuleSet(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return writeRuleFile(cmd.OutOrStdout(), cfg.Rules.Form, set)
		},
	}
}

func writeRuleFile(w io.Writer, name string, set ruleSet) error {
	doc := map[string]any{
		"forms": map[string]any{
			name: map[string]any{
				"presentation": string(set.Presentation),
				"rules":        set.Rules,
			},
		},
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	return enc.Close()
}

type violation struct {
	file    string
	message string
}

func newRulesLintCmd() *cobra.Command {
	var operation string

	cmd := &cobra.Command{
		Use:   "lint PATH...",
		Short: "Validate rule files and x-formtoggle OpenAPI extensions",
		Long: `Each PATH is a rule file, a directory of rule files, or an OpenAPI document
(detected by its top-level "openapi" key, checked with --operation).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var violations []violation
			for _, path := range args {
				violations = append(violations, lintPath(cmd.Context(), path, operation)...)
			}
			if len(violations) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d path(s) ok\n", len(args))
				return nil
			}
			sort.Slice(violations, func(i, j int) bool {
				if violations[i].file == violations[j].file {
					return violations[i].message < violations[j].message
				}
				return violations[i].file < violations[j].file
			})
			for _, v := range violations {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", v.file, v.message)
			}
			return fmt.Errorf("%d violation(s)", len(violations))
		},
	}

	cmd.Flags().StringVar(&operation, "operation", "", "Operation ID checked in OpenAPI documents")
	return cmd
}

func lintPath(ctx context.Context, path, operation string) []violation {
	info, err := os.Stat(path)
	if err != nil {
		return []violation{{file: path, message: err.Error()}}
	}
	if info.IsDir() {
		if _, err := rules.LoadFS(os.DirFS(path)); err != nil {
			return []violation{{file: path, message: err.Error()}}
		}
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return []violation{{file: path, message: err.Error()}}
	}
	if isOpenAPI(data) {
		if operation == "" {
			return []violation{{file: path, message: "openapi document needs --operation"}}
		}
		derived, err := rules.FromOpenAPI(ctx, data, operation)
		if err != nil {
			return []violation{{file: path, message: err.Error()}}
		}
		if len(derived) == 0 {
			return []violation{{file: path, message: fmt.Sprintf("operation %q has no %s properties", operation, rules.ExtensionKey)}}
		}
		return lintRules(path, derived)
	}

	forms, err := rules.Parse(data, filepath.Base(path))
	if err != nil {
		return []violation{{file: path, message: err.Error()}}
	}
	var out []violation
	for _, form := range forms {
		out = append(out, lintRules(path, form.Rules)...)
	}
	return out
}

// lintRules flags rules that are valid but cannot serve submissions or
// terminal prompts.
func lintRules(path string, list []toggle.Rule) []violation {
	var out []violation
	for _, rule := range list {
		if rule.ControllerField == "" || rule.DependentField == "" {
			out = append(out, violation{file: path, message: fmt.Sprintf("rule %q: controller_field and dependent_field are needed for pruning and prompts", rule.Key())})
		}
		if strings.TrimSpace(rule.MatchValue) != rule.MatchValue {
			out = append(out, violation{file: path, message: fmt.Sprintf("rule %q: match value %q has surrounding spaces and is compared exactly", rule.Key(), rule.MatchValue)})
		}
	}
	return out
}

func isOpenAPI(data []byte) bool {
	var probe struct {
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.OpenAPI != ""
}
