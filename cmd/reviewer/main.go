// Package main provides the reviewer CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/richinex/reviewer/cli"
	"github.com/richinex/reviewer/config"
	"github.com/richinex/reviewer/internal/logging"
)

var (
	// Global flags
	configPath string
	logLevel   string
	logFormat  string
	verbose    bool

	opts cli.Options
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "reviewer",
		Short: "Three-stage academic paper review pipeline",
		Long: `Review academic papers with a Reader, a MetaReviewer and a Critic.

The reader loads and segments the paper, the meta-reviewer scores it and the
critic lists issues. The compiled review carries a recommendation and an
ordered action plan.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.New(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				settings.Log.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				settings.Log.Format = logFormat
			}
			if verbose && !cmd.Flags().Changed("log-level") {
				settings.Log.Level = logging.LevelDebug
			}
			opts = cli.Options{
				Settings: settings,
				Logger:   logging.New(settings.Log.Level, settings.Log.Format, os.Stderr),
				Verbose:  verbose,
				Out:      os.Stdout,
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	rootCmd.AddCommand(reviewCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(evalCmd())
	rootCmd.AddCommand(toolsCmd())
	rootCmd.AddCommand(artifactsCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func reviewCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "review [paper]",
		Short: "Review one paper",
		Long: `Run the full pipeline for one paper and print the result.

The paper is a sample id (a .txt file name in the samples directory) or a
path ending in .pdf.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Review(cmd.Context(), args[0], outPath, opts)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the full review as JSON to this path")

	return cmd
}

func serveCmd() *cobra.Command {
	var stdio bool
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the task service",
		Long: `Expose submit_paper, get_status, execute_review and get_trace.

By default the service listens on HTTP (POST /mcp, the /tasks routes and
/metrics). With --stdio it reads one JSON request per line from stdin and
writes one response per line to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Serve(cmd.Context(), stdio, addr, opts)
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false, "Serve newline-delimited JSON over stdin/stdout")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (defaults to server.addr)")

	return cmd
}

func evalCmd() *cobra.Command {
	var casesPath string
	var reportPath string

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Run the evaluation suite",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Evaluate(cmd.Context(), casesPath, reportPath, opts)
		},
	}

	cmd.Flags().StringVar(&casesPath, "cases", "", "Test case file (defaults to eval.cases_path)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Report output path (defaults to eval.report_path)")

	return cmd
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List available tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli.ListTools(verbose, opts)
			return nil
		},
	}
}

func artifactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "artifacts [prefix]",
		Short: "List stored review artifacts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			return cli.ListArtifacts(cmd.Context(), prefix, opts)
		},
	}
}
