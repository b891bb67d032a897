package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	formtoggle "github.com/goliatone/go-formtoggle"
	"github.com/goliatone/go-formtoggle/pkg/browser"
	"github.com/goliatone/go-formtoggle/pkg/toggle"
)

func newWatchCmd() *cobra.Command {
	var (
		interval time.Duration
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch URL",
		Short: "Bind rules to a live page in Chrome and report state changes",
		Long: `Opens URL in Chrome (or connects to browser.control_url), binds every rule
against the live DOM and prints each rule state whenever it changes. Runs
until interrupted or --duration elapses.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("watch: --interval must be positive, got %s", interval)
			}
			set, err := loadRuleSet(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			presenter, err := toggle.ParsePresentation(string(set.Presentation), set.HiddenClass)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, duration)
				defer cancel()
			}

			live, err := formtoggle.BindPage(ctx, args[0], set.Rules,
				[]browser.Option{
					browser.WithConfig(browser.Config{
						ControlURL:  cfg.Browser.ControlURL,
						Headless:    cfg.Browser.Headless,
						LoadTimeout: cfg.Browser.LoadTimeout,
					}),
					browser.WithLogger(logger),
				},
				toggle.WithPresenter(presenter),
				toggle.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			defer func() {
				if err := live.Close(); err != nil {
					logger.Warn("close page", zap.Error(err))
				}
			}()

			return watchStates(ctx, live.Group, interval, func(states map[string]toggle.State) {
				now := time.Now().Format(time.RFC3339)
				for _, name := range slices.Sorted(maps.Keys(states)) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", now, name, states[name])
				}
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 250*time.Millisecond, "State polling interval")
	cmd.Flags().DurationVar(&duration, "duration", 0, "Stop after this long (0 runs until interrupted)")
	return cmd
}

// stateSource is implemented by *toggle.Group.
type stateSource interface {
	States() map[string]toggle.State
}

// watchStates reports the initial states and then every rule whose state
// changed, until ctx is done.
func watchStates(ctx context.Context, src stateSource, interval time.Duration, report func(map[string]toggle.State)) error {
	if interval <= 0 {
		return fmt.Errorf("watch: interval must be positive, got %s", interval)
	}
	last := src.States()
	report(last)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			current := src.States()
			changed := make(map[string]toggle.State)
			for name, state := range current {
				if last[name] != state {
					changed[name] = state
				}
			}
			if len(changed) > 0 {
				report(changed)
			}
			last = maps.Clone(current)
		}
	}
}
