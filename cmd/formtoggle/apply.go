package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formtoggle/pkg/render"
)

func newApplyCmd() *cobra.Command {
	var (
		values    map[string]string
		output    string
		scriptURL string
		noScript  bool
		report    bool
	)

	cmd := &cobra.Command{
		Use:   "apply [file]",
		Short: "Pre-render visibility rules into an HTML page",
		Long: `Reads an HTML page (stdin when no file or "-" is given), evaluates every
rule against it and writes the page with dependents already shown or hidden.

Example:
  formtoggle apply usuario.html --value '#id_rol=MECANICO' -o out.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			set, err := loadRuleSet(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			opts := set.renderOptions(cfg)
			opts.Values = values
			opts.Logger = logger
			if cmd.Flags().Changed("script-url") {
				opts.ScriptURL = scriptURL
			}
			if noScript {
				opts.ScriptURL = ""
			}

			out, rep, err := render.Apply(cmd.Context(), string(input), set.Rules, opts)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), output, out); err != nil {
				return err
			}
			if report {
				enc := json.NewEncoder(cmd.ErrOrStderr())
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			return nil
		},
	}

	cmd.Flags().StringToStringVar(&values, "value", nil, "Override a controller value, selector=value (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().StringVar(&scriptURL, "script-url", "", "Runtime script URL (overrides config)")
	cmd.Flags().BoolVar(&noScript, "no-script", false, "Do not append the runtime script tag")
	cmd.Flags().BoolVar(&report, "report", false, "Print the rule states as JSON to stderr")
	return cmd
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeOutput(stdout io.Writer, path, content string) error {
	if path == "" {
		_, err := io.WriteString(stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
