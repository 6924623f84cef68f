package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dshills/critic/internal/cache"
	"github.com/dshills/critic/internal/collect"
	"github.com/dshills/critic/internal/config"
	"github.com/dshills/critic/internal/document"
	"github.com/dshills/critic/internal/logger"
	"github.com/dshills/critic/internal/output"
	"github.com/dshills/critic/internal/providers"
	"github.com/dshills/critic/internal/redact"
	"github.com/dshills/critic/internal/review"
	"github.com/spf13/cobra"
)

// Review flags
var (
	flagFile         string
	flagDirectory    string
	flagRecursive    bool
	flagLanguage     string
	flagIgnoreFile   string
	flagProvider     string
	flagModel        string
	flagBaseURL      string
	flagSystemPrompt string
	flagFormat       string
	flagOut          string
	flagTimeout      int
	flagWorkers      int
	flagLogLevel     string
	flagNoCache      bool
	flagRedact       bool
	flagDryRun       bool
)

var reviewCmd = &cobra.Command{
	Use:   "review (-f FILE | -d DIR)",
	Short: "Review a file or directory",
	Example: `  critic review -f main.py
  critic review -d src -r
  critic review -d . -r -L python -i .gitignore`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		exitCode = runReview(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	f := reviewCmd.Flags()
	f.StringVarP(&flagFile, "file", "f", "", "Review a single file")
	f.StringVarP(&flagDirectory, "directory", "d", "", "Review all files in a directory")
	f.BoolVarP(&flagRecursive, "recursive", "r", false, "Review files recursively in subdirectories")
	f.StringVarP(&flagLanguage, "language", "L", "", "Filter by programming language (e.g., python, javascript)")
	f.StringVarP(&flagIgnoreFile, "ignore-file", "i", "", "File containing patterns to ignore (like .gitignore)")
	addProviderFlags(reviewCmd)
	f.StringVar(&flagSystemPrompt, "system-prompt", "", "System prompt file")
	f.StringVar(&flagFormat, "format", "", "Output format (text, markdown, json, yaml)")
	f.StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	f.IntVar(&flagTimeout, "timeout", 0, "Review request timeout in seconds")
	f.IntVar(&flagWorkers, "workers", 0, "Concurrent file reads")
	f.StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	f.BoolVar(&flagNoCache, "no-cache", false, "Bypass the reply cache")
	f.BoolVar(&flagRedact, "redact", false, "Redact secrets from file contents before sending")
	f.BoolVar(&flagDryRun, "dry-run", false, "Print the assembled document and a token estimate without calling the service")

	reviewCmd.MarkFlagsMutuallyExclusive("file", "directory")
	reviewCmd.MarkFlagsOneRequired("file", "directory")
}

func addProviderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagProvider, "provider", "", "Review service (deepseek, openai, anthropic, gemini, ollama)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().StringVar(&flagBaseURL, "base-url", "", "Override the service endpoint")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagBaseURL != "" {
		m["baseURL"] = flagBaseURL
	}
	if flagSystemPrompt != "" {
		m["systemPromptFile"] = flagSystemPrompt
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagLogLevel != "" {
		m["logLevel"] = flagLogLevel
	}
	if flagTimeout > 0 {
		m["timeoutSeconds"] = strconv.Itoa(flagTimeout)
	}
	if flagWorkers > 0 {
		m["workers"] = strconv.Itoa(flagWorkers)
	}
	return m
}

func reviewTarget() string {
	if flagFile != "" {
		return flagFile
	}
	return flagDirectory
}

func runReview(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) int {
	log := logger.New(stderr, logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompt, promptPath, err := config.SystemPrompt(cfg)
	switch {
	case errors.Is(err, config.ErrPromptNotFound):
		log.Warnf("%v; using default system prompt", err)
	case err != nil:
		log.Errorf("%v", err)
		return ExitUsageError
	case promptPath != "":
		log.Debugf("system prompt loaded from %s", promptPath)
	}

	var reviewer providers.Reviewer
	if !flagDryRun {
		reviewer, err = newReviewer(cfg)
		if err != nil {
			log.Errorf("%v", err)
			if errors.Is(err, config.ErrMissingAPIKey) {
				log.Errorf("Export it with: export %s='your-key'", cfg.KeyEnv())
				return ExitAuthError
			}
			if providers.IsAuthError(err) {
				return ExitAuthError
			}
			return ExitUsageError
		}
	}

	opts := []review.Option{
		review.WithSystemPrompt(prompt),
		review.WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
		review.WithSampling(cfg.MaxTokens, cfg.Temperature),
	}
	if cfg.Cache.Enabled && !flagNoCache {
		c, err := cache.New(true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil {
			log.Warnf("cache unavailable: %v", err)
		} else {
			opts = append(opts, review.WithCache(c))
		}
	}
	engine := review.NewEngine(reviewer, log, opts...)

	req := review.Request{
		Target:     reviewTarget(),
		Recursive:  flagRecursive,
		Language:   flagLanguage,
		IgnoreFile: flagIgnoreFile,
		Workers:    cfg.Workers,
	}
	var redactor *redact.Redactor
	if cfg.Privacy.RedactSecrets || flagRedact {
		redactor = redact.New(redact.DefaultPaths)
		req.Transform = redactor.Transform
	}

	prep, err := engine.Prepare(ctx, req)
	if err != nil {
		return failure(ctx, log, err)
	}
	if redactor != nil && redactor.Redacted() > 0 {
		log.Infof("Redacted secrets in %d files", redactor.Redacted())
	}

	if flagDryRun {
		return dryRun(stdout, log, engine, prep, cfg.Model)
	}

	if !prep.Empty() && cfg.Format == "text" && flagOut == "" {
		fmt.Fprint(stdout, prep.Document.Layout)
	}

	res, err := engine.Send(ctx, prep)
	if err != nil {
		return failure(ctx, log, err)
	}
	if res.Empty && cfg.Format == "text" {
		return ExitSuccess
	}
	if err := output.WriteResult(res, cfg.Format, flagOut, stdout); err != nil {
		log.Errorf("writing output: %v", err)
		return ExitRuntimeError
	}
	if flagOut != "" {
		log.Infof("Review written to %s", flagOut)
	}
	return ExitSuccess
}

func newReviewer(cfg config.Config) (providers.Reviewer, error) {
	key, err := config.APIKey(cfg)
	if err != nil {
		return nil, err
	}
	return providers.New(cfg.Provider, providers.Options{
		Model:   cfg.Model,
		APIKey:  key,
		BaseURL: cfg.BaseURL,
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	})
}

func dryRun(stdout io.Writer, log *logger.ConsoleLogger, engine *review.Engine, prep *review.Prepared, model string) int {
	if prep.Empty() {
		return ExitSuccess
	}
	fmt.Fprint(stdout, prep.Document.Text)

	counter, exact := document.NewCounter(model)
	tokens := counter.Count(engine.SystemPromptText()) + counter.Count(prep.Document.Text)
	approx := "~"
	if exact {
		approx = ""
	}
	log.Infof("Dry run: %d files (%d omitted), %d bytes, %s%d tokens; nothing sent",
		len(prep.Document.Included), len(prep.Document.Omitted), len(prep.Document.Text), approx, tokens)
	return ExitSuccess
}

// failure logs err and maps it to an exit code.
func failure(ctx context.Context, log *logger.ConsoleLogger, err error) int {
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		log.Errorf("Review interrupted by user")
		return ExitInterrupted
	}
	log.Errorf("%v", err)
	switch {
	case collect.IsConfigError(err):
		return ExitUsageError
	case providers.IsAuthError(err):
		return ExitAuthError
	default:
		return ExitRuntimeError
	}
}
