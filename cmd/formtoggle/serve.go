package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	formtoggle "github.com/goliatone/go-formtoggle"
	"github.com/goliatone/go-formtoggle/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the user form with pre-rendered visibility",
		Long: `Starts the admin HTTP service:

  GET  /usuarios/nuevo     user form (?rol=...&layout=tabular|grouped)
  POST /usuarios           echoes the submission with hidden dependents cleared
  GET  /static/            browser runtime`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadRuleSet(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			srv, err := server.New(server.Options{
				Rules:     set.Rules,
				Render:    set.renderOptions(cfg),
				Templates: formtoggle.EmbeddedTemplates(),
				Assets:    formtoggle.RuntimeAssetsFS(),
				Logger:    logger,
			})
			if err != nil {
				return err
			}
			logger.Info("rules loaded", zap.String("source", set.Source), zap.Int("count", len(set.Rules)))
			return srv.ListenAndServe(cmd.Context(), addr, cfg.Server.ReadTimeout, cfg.Server.ShutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}
