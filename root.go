package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"drivecp/internal/config"
	"drivecp/internal/drive"
	"drivecp/internal/transfer"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath string
	flagJSON       bool
	flagVerbose    bool
	flagQuiet      bool
)

// resolvedCfg holds the effective configuration loaded by PersistentPreRunE.
// It is available to all subcommands after the root pre-run phase completes.
var resolvedCfg *config.Config

// responseHeaderTimeout bounds how long a request may wait for the server to
// start responding. A total-request timeout would cut off large content
// streams mid-copy, so only the header phase is bounded here; retry and
// backoff for failed requests live in the drive client.
const responseHeaderTimeout = 30 * time.Second

// defaultHTTPClient returns an HTTP client suitable for both metadata calls
// and long content streams.
func defaultHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{ResponseHeaderTimeout: responseHeaderTimeout},
	}
}

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drivecp",
		Short: "Path-based Google Drive file transfer",
		Long: `drivecp moves files to and from Google Drive using plain folder paths.

Drive addresses everything by opaque IDs; drivecp resolves slash-delimited,
root-anchored folder paths ("invoices/2026") to those IDs for you, flags
ambiguous duplicate folder names, and exports native Google documents to
their Office formats (.docx, .xlsx, .pptx) on download.`,
		Version: version,
		// Silence Cobra's default error/usage printing — we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	cmd.AddCommand(newLsCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newPutCmd())
	cmd.AddCommand(newRmCmd())
	cmd.AddCommand(newMkdirCmd())
	cmd.AddCommand(newStatCmd())

	return cmd
}

// loadConfig resolves the effective configuration from the override chain
// and stores the result in resolvedCfg for use by subcommands.
func loadConfig() error {
	cli := config.CLIOverrides{ConfigPath: flagConfigPath}
	env := config.ReadEnvOverrides()

	cfg, err := config.Resolve(env, cli)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	resolvedCfg = cfg

	return nil
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. Config-file log level provides the baseline; --verbose and
// --quiet override it because CLI flags always win.
func buildLogger() *slog.Logger {
	level := slog.LevelInfo
	if resolvedCfg != nil {
		level = resolvedCfg.SlogLevel()
	}

	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newService loads the saved token, builds the Drive client, and returns the
// transfer service all commands operate through.
func newService(ctx context.Context) (*transfer.Service, *slog.Logger, error) {
	logger := buildLogger()

	tokenPath := resolvedCfg.TokenPath
	if tokenPath == "" {
		return nil, nil, fmt.Errorf("cannot determine token path; set token_path in the config file")
	}

	ts, err := drive.TokenSourceFromPath(ctx, tokenPath, logger)
	if err != nil {
		if errors.Is(err, drive.ErrNotLoggedIn) {
			return nil, nil, fmt.Errorf("no saved token at %s — authorize externally and save the token there", tokenPath)
		}

		return nil, nil, err
	}

	client := drive.NewClient(drive.DefaultBaseURL, defaultHTTPClient(), ts, logger)

	return transfer.NewService(client, logger), logger, nil
}

// effectiveFolder joins the configured root folder prefix with a
// per-command folder path.
func effectiveFolder(folder string) string {
	root := strings.Trim(resolvedCfg.RootFolder, "/")
	folder = strings.Trim(folder, "/")

	switch {
	case root == "":
		return folder
	case folder == "":
		return root
	default:
		return root + "/" + folder
	}
}

// exitOnError prints a user-friendly error message to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
