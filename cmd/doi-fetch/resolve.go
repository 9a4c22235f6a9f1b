// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doi-fetch/internal/batch"
	"github.com/pdiddy/doi-fetch/internal/httputil"
	"github.com/pdiddy/doi-fetch/internal/ledger"
	"github.com/pdiddy/doi-fetch/internal/lookup"
	"github.com/pdiddy/doi-fetch/internal/resolve"
	"github.com/pdiddy/doi-fetch/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <input_file> <output_file>",
	Short: "Annotate references with DOIs and download the PDFs",
	Long: `Resolve reads one bibliographic reference per line from input_file. A
reference that contains a doi.org link uses that DOI; any other reference is
looked up in the configured metadata service (CrossRef or OpenAlex).

Every reference is written to output_file with " DOI: https://doi.org/<doi>"
or " DOI: NOT FOUND" appended, in input order. For each DOI found the PDF is
requested through proxy_prefix and saved as <output_dir>/NNN.pdf. Existing
files are skipped, so an interrupted run can be repeated.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("proxy-prefix", "", "prefix prepended to https://doi.org/<doi> (e.g. an EZproxy login URL)")
	resolveCmd.Flags().String("backend", "", "metadata lookup backend: crossref or openalex")
	resolveCmd.Flags().Duration("lookup-timeout", 0, "metadata request timeout (default 20s)")
	resolveCmd.Flags().Duration("download-timeout", 0, "PDF request timeout (default 60s)")

	_ = viper.BindPFlag("proxy_prefix", resolveCmd.Flags().Lookup("proxy-prefix"))
	_ = viper.BindPFlag("lookup.backend", resolveCmd.Flags().Lookup("backend"))
	_ = viper.BindPFlag("lookup.timeout", resolveCmd.Flags().Lookup("lookup-timeout"))
	_ = viper.BindPFlag("download.timeout", resolveCmd.Flags().Lookup("download-timeout"))

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg := loadConfig(cmd)
	rc := cfg.Resolver

	refs, err := batch.ReadLines(args[0])
	if err != nil {
		return err
	}

	unlock, err := batch.LockDir(rc.OutputDir)
	if err != nil {
		return err
	}
	defer unlock()

	backend, err := lookup.New(rc.Lookup, httputil.NewClient(rc.Lookup.Timeout, rc.Lookup.ContactAgent()))
	if err != nil {
		return err
	}

	out, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	if rc.ProxyPrefix == "" {
		logger.Warn("no proxy_prefix configured; requesting doi.org directly")
	}

	r := &resolve.Resolver{
		Client:  httputil.NewClient(rc.Timeout, rc.ContactAgent()),
		Lookup:  backend,
		Config:  rc,
		Out:     out,
		Console: os.Stdout,
		Logger:  logger,
	}
	summary, runErr := r.Run(cmd.Context(), refs)

	recordRun(cmd.Context(), cfg, rc.OutputDir, summary)
	printSummary(os.Stdout, summary)

	if runErr != nil {
		return runErr
	}
	return out.Close()
}

// recordRun stores the summary in the output directory's ledger. Failures
// are logged and never change the command's outcome.
func recordRun(ctx context.Context, cfg types.Config, dir string, summary types.RunSummary) {
	if !cfg.Ledger {
		return
	}
	l, err := ledger.Open(dir)
	if err != nil {
		logger.Warn("opening run ledger", "err", err)
		return
	}
	defer l.Close()

	// The run may have ended by cancellation; record it regardless.
	if err := l.Record(context.WithoutCancel(ctx), summary); err != nil {
		logger.Warn("recording run", "err", err)
	}
}
