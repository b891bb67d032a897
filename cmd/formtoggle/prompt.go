package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formtoggle/internal/catalog"
	"github.com/goliatone/go-formtoggle/pkg/prompt"
)

func newPromptCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill the user form in the terminal",
		Long: `Asks the user form fields one by one. The specialty is only asked when
the selected role shows it. The collected values are printed as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadRuleSet(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			form, err := prompt.NewForm(catalog.UsuarioFields(), set.Rules, prompt.WithLogger(logger))
			if err != nil {
				return err
			}
			values, err := form.Run(cmd.Context())
			if err != nil {
				return err
			}
			return prompt.Encode(cmd.OutOrStdout(), values, prompt.OutputFormat(format))
		},
	}

	cmd.Flags().StringVar(&format, "format", string(prompt.OutputFormatJSON), "Output format: json or pretty")
	return cmd
}
