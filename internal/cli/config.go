package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/dshills/critic/internal/config"
	"github.com/dshills/critic/internal/providers"
	"github.com/spf13/cobra"
)

var (
	flagInitForce    bool
	flagInitProvider string
	flagShowPath     bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage critic configuration",
	Long: `Settings are read from the config file, then CRITIC_* environment
variables, then command-line flags. API keys are never stored in the file;
only the name of the variable holding the key is.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !flagInitForce {
			fmt.Fprintf(cmd.ErrOrStderr(), "Config file already exists at %s (use --force to overwrite)\n", path)
			return nil
		}

		cfg := config.Default()
		if flagInitProvider != "" {
			info, ok := providers.Lookup(flagInitProvider)
			if !ok {
				return fmt.Errorf("unknown provider: %s", flagInitProvider)
			}
			cfg.Provider = info.Name
			cfg.Model = info.DefaultModel
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config file created at %s\n", path)
		if env := cfg.KeyEnv(); env != "" {
			fmt.Fprintf(out, "Reviews with %s read the API key from $%s\n", cfg.Provider, env)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting in the config file",
	Example: `  critic config set provider anthropic
  critic config set temperature 0
  critic config set cache.ttlSeconds 3600`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		cfg, err := config.LoadFile()
		if err != nil {
			return err
		}
		old, err := config.GetField(cfg, key)
		if err != nil {
			return err
		}
		if err := config.SetField(&cfg, key, value); err != nil {
			return err
		}

		// A model from the previous provider would be rejected by the new one.
		note := ""
		if key == "provider" {
			if info, ok := providers.Lookup(cfg.Provider); ok && !slices.Contains(info.Models, cfg.Model) {
				cfg.Model = info.DefaultModel
				note = fmt.Sprintf(" (model reset to %s)", cfg.Model)
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s%s\n", key, old, value, note)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Prints the merged configuration as JSON on stdout. Where the API key and
system prompt come from is reported on stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		if flagShowPath {
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		}

		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))

		errOut := cmd.ErrOrStderr()
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(errOut, "config file:   %s (not found, using defaults)\n", path)
		} else {
			fmt.Fprintf(errOut, "config file:   %s\n", path)
		}
		switch _, err := config.APIKey(cfg); {
		case cfg.KeyEnv() == "":
			fmt.Fprintf(errOut, "api key:       not required for %s\n", cfg.Provider)
		case err != nil:
			fmt.Fprintf(errOut, "api key:       $%s is not set\n", cfg.KeyEnv())
		default:
			fmt.Fprintf(errOut, "api key:       $%s is set\n", cfg.KeyEnv())
		}
		_, promptPath, err := config.SystemPrompt(cfg)
		switch {
		case errors.Is(err, config.ErrPromptNotFound):
			fmt.Fprintf(errOut, "system prompt: %s is missing, built-in default used\n", cfg.SystemPromptFile)
		case err != nil:
			fmt.Fprintf(errOut, "system prompt: %v\n", err)
		case promptPath != "":
			fmt.Fprintf(errOut, "system prompt: %s\n", promptPath)
		default:
			fmt.Fprintln(errOut, "system prompt: built-in default")
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&flagInitForce, "force", false, "Overwrite an existing config file")
	configInitCmd.Flags().StringVar(&flagInitProvider, "provider", "", "Provider to configure, with its default model")
	configShowCmd.Flags().BoolVar(&flagShowPath, "path", false, "Print only the config file path")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}
