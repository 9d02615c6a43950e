package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SauloRodrigues20/agroqr/config"
	"github.com/SauloRodrigues20/agroqr/generator"
	"github.com/SauloRodrigues20/agroqr/qr"
	"github.com/SauloRodrigues20/agroqr/scan"
	"github.com/SauloRodrigues20/agroqr/store"
)

var version = "v0.1.0"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI with args and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		return 1
	}
	return 0
}

// newRootCmd builds the command tree. Logs go to stderr.
func newRootCmd(stderr io.Writer) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "agroqr",
		Short:        "Generate the AgroColetor download QR code",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), configPath, cmd.OutOrStdout(), stderr)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "agroqr.yaml", "Path to config file")

	// --- verify command ------------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "verify [file]",
		Short: "Decode a generated image and check it points to the download URL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := generator.OutputFile
			if len(args) == 1 {
				path = args[0]
			}
			return runVerify(path, cmd.OutOrStdout())
		},
	})

	// --- history command -----------------------------------------------------
	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), configPath, limit, cmd.OutOrStdout())
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries")
	root.AddCommand(historyCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "agroqr %s\n", version)
		},
	})

	return root
}

// runGenerate loads the ambient config and writes the QR code image.
func runGenerate(ctx context.Context, configPath string, out, stderr io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg.LogLevel, stderr)

	enc, err := qr.NewEncoder(cfg.Engine)
	if err != nil {
		return err
	}

	var opts []generator.Option
	if cfg.History.Enabled {
		hist, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer hist.Close()
		opts = append(opts, generator.WithRecorder(hist))
	}

	_, err = generator.New(enc, out, log, opts...).Run(ctx)
	return err
}

// runVerify decodes the image at path and compares it with the download URL.
func runVerify(path string, out io.Writer) error {
	text, err := scan.File(path)
	if err != nil {
		return err
	}
	if text != generator.DownloadURL {
		return fmt.Errorf("%s encodes %q, want %q", path, text, generator.DownloadURL)
	}
	fmt.Fprintf(out, "%s -> %s\n", path, text)
	return nil
}

// runHistory prints the recorded generations, newest first.
func runHistory(ctx context.Context, configPath string, limit int, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled (set history.enabled or AGROQR_HISTORY_ENABLED)")
	}

	hist, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer hist.Close()

	gens, err := hist.List(ctx, limit)
	if err != nil {
		return err
	}
	for _, g := range gens {
		fmt.Fprintf(out, "%s  %s  v%d/%s  %dx%d  %s  %.12s\n",
			time.Unix(g.CreatedAt, 0).Format(time.RFC3339),
			g.Path, g.Version, g.Level, g.Width, g.Height, g.Engine, g.Checksum)
	}
	return nil
}

func openHistory(cfg *config.Config) (*store.HistoryStore, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	hist, err := store.NewHistoryStore(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return hist, nil
}

// newLogger writes to w, which is stderr in practice so stdout carries only
// the report.
func newLogger(level string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}
