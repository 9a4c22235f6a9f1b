// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doi-fetch/internal/batch"
	"github.com/pdiddy/doi-fetch/internal/browse"
)

var browseCmd = &cobra.Command{
	Use:   "browse [doi_file]",
	Short: "Download PDFs by driving a real browser",
	Long: `Browse opens each DOI URL from doi_file (default browser.input) in Chrome,
waits for the page, clicks the first link whose text contains link_text, and
renames the downloaded PDF to <output_dir>/NNN.pdf.

Browser downloads go straight into output_dir. Completed downloads are taken
from the browser's download events; when none arrives the newest PDF in the
directory is used instead. Existing NNN.pdf files are skipped.

Use --remote-url to attach to a browser you have already signed in to your
institution with.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	f := browseCmd.Flags()
	f.Duration("wait", 0, "delay after navigation and after clicking (default 5s)")
	f.Bool("headless", false, "run the browser without a window")
	f.String("exec-path", "", "browser binary to start")
	f.String("remote-url", "", "DevTools websocket URL of a running browser")
	f.String("link-text", "", "partial link text to click (default \"PDF\")")

	_ = viper.BindPFlag("browser.wait", f.Lookup("wait"))
	_ = viper.BindPFlag("browser.headless", f.Lookup("headless"))
	_ = viper.BindPFlag("browser.exec_path", f.Lookup("exec-path"))
	_ = viper.BindPFlag("browser.remote_url", f.Lookup("remote-url"))
	_ = viper.BindPFlag("browser.link_text", f.Lookup("link-text"))

	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg := loadConfig(cmd)
	bc := cfg.Browser
	if len(args) == 1 {
		bc.InputFile = args[0]
	}

	urls, err := batch.ReadLines(bc.InputFile)
	if err != nil {
		return err
	}

	unlock, err := batch.LockDir(bc.OutputDir)
	if err != nil {
		return err
	}
	defer unlock()

	chrome, err := browse.NewChrome(cmd.Context(), bc)
	if err != nil {
		return err
	}

	d := &browse.Downloader{
		Browser: chrome,
		Config:  bc,
		Console: os.Stdout,
		Logger:  logger,
	}
	summary, runErr := d.Run(cmd.Context(), urls)

	recordRun(cmd.Context(), cfg, bc.OutputDir, summary)
	printSummary(os.Stdout, summary)
	return runErr
}
