package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/critic/internal/config"
	"github.com/dshills/critic/internal/providers"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Provider and model management",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known providers and models",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, info := range providers.Known() {
			fmt.Fprintf(out, "%s", info.Name)
			if len(info.Aliases) > 0 {
				fmt.Fprintf(out, " (aliases: %v)", info.Aliases)
			}
			if info.KeyEnv != "" {
				fmt.Fprintf(out, " [key: %s]", info.KeyEnv)
			}
			fmt.Fprintln(out, ":")
			for _, m := range info.Models {
				marker := " "
				if m == info.DefaultModel {
					marker = "*"
				}
				fmt.Fprintf(out, "  %s %s\n", marker, m)
			}
			fmt.Fprintln(out)
		}
	},
}

var modelsDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate provider credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

		fmt.Fprintf(out, "Checking %s (%s)...\n", cfg.Provider, cfg.Model)

		p, err := newReviewer(cfg)
		if err != nil {
			fmt.Fprintf(errOut, "FAIL: %v\n", err)
			if errors.Is(err, config.ErrMissingAPIKey) || providers.IsAuthError(err) {
				exitCode = ExitAuthError
			} else {
				exitCode = ExitUsageError
			}
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		_, err = p.Review(ctx, providers.ReviewRequest{
			SystemPrompt: "Respond with exactly: ok",
			Document:     "ping",
			MaxTokens:    10,
		})
		if err != nil {
			fmt.Fprintf(errOut, "FAIL: %v\n", err)
			if providers.IsAuthError(err) {
				exitCode = ExitAuthError
			} else {
				exitCode = ExitRuntimeError
			}
			return nil
		}

		fmt.Fprintf(out, "OK: %s is configured and responding\n", cfg.Provider)
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsDoctorCmd)
	addProviderFlags(modelsDoctorCmd)
}
