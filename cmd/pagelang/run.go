package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/moegirlwiki/pagelang/internal/config"
	"github.com/moegirlwiki/pagelang/internal/langset"
	"github.com/moegirlwiki/pagelang/internal/pages"
	"github.com/moegirlwiki/pagelang/mwapi"
	"github.com/spf13/cobra"
)

// runRootCmd executes the batch run.
func runRootCmd(cmd *cobra.Command, args []string) error {
	// Best-effort .env load; real environment variables win.
	_ = godotenv.Load()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, logger, cmd.OutOrStdout())
}

// buildConfig resolves the configuration: defaults, then the .pagelang
// file, then environment variables, then flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path := config.FindConfigFile(configPath); path != "" {
		f, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
		cfg.ApplyFile(f)
	} else if configPath != "" {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	cfg.ApplyEnv()

	if v, err := cmd.Flags().GetString("endpoint"); err == nil && v != "" {
		cfg.Endpoint = v
	}
	if v, err := cmd.Flags().GetString("lang"); err == nil && v != "" {
		cfg.Language = v
	}
	if v, err := cmd.Flags().GetString("file"); err == nil && v != "" {
		cfg.PagesFile = v
	}
	if cmd.Flags().Changed("timeout") {
		if v, err := cmd.Flags().GetDuration("timeout"); err == nil {
			cfg.Timeout = v
		}
	}
	if v, err := cmd.Flags().GetBool("verbose"); err == nil {
		cfg.Verbose = v
	}

	return cfg, nil
}

// setupLogger builds the diagnostic logger. Per-title status lines are
// product output and go to stdout directly, not through the logger.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// run executes the pipeline: read titles, authenticate, update each
// page, release the session.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	// Read the titles before touching the network, so a missing file
	// fails without a single API call.
	titles, err := pages.ReadTitles(cfg.PagesFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Found %d page titles in %q.\n", len(titles), cfg.PagesFile)

	client, err := mwapi.NewClient(cfg.Endpoint,
		mwapi.WithTimeout(cfg.Timeout),
		mwapi.WithUserAgent(cfg.UserAgent),
	)
	if err != nil {
		return err
	}

	login, err := client.Login(ctx, cfg.Username, cfg.Password)
	if err != nil {
		return err
	}
	logger.Debug("logged in", "user", login.LgName, "id", login.LgUserID)
	defer func() {
		// Release the server-side session even when the run was cancelled.
		if err := client.Logout(context.WithoutCancel(ctx)); err != nil {
			logger.Debug("logout failed", "error", err)
		}
	}()

	// The CSRF token is scoped to the logged-in session; fetching it here
	// makes a token problem abort the run before any write is attempted.
	if _, err := client.GetToken(ctx, mwapi.TokenCSRF); err != nil {
		return fmt.Errorf("fetch CSRF token: %w", err)
	}
	fmt.Fprintln(out, "Successfully logged in and obtained CSRF token.")

	updater := langset.New(client, cfg.Language, out, logger)
	if err := updater.Run(ctx, titles); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nFinished.")
	return nil
}
