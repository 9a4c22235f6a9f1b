// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doi-fetch CLI: a reference
// resolver that annotates bibliographies with DOIs and downloads the PDFs,
// and a browser-driven downloader for publisher pages that need a click.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doi-fetch/internal/secrets"
	"github.com/pdiddy/doi-fetch/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds values loaded from .secrets/ and .env at startup.
var loadedSecrets map[string]string

// logger is configured from log_level before any subcommand runs.
var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the doi-fetch CLI.
var rootCmd = &cobra.Command{
	Use:   "doi-fetch",
	Short: "Resolve references to DOIs and download the papers",
	Long: `doi-fetch turns a bibliography into a numbered set of PDFs.

resolve reads one reference per line, finds each DOI (from an embedded
doi.org link or a metadata lookup), writes an annotated copy of the list,
and downloads each PDF through an optional institutional proxy.

browse drives a real browser through a list of DOI URLs for publishers
that only serve PDFs after a click. Both write <output_dir>/NNN.pdf where
NNN is the 1-based input line, and both skip files that already exist.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", ".env")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		level, err := log.ParseLevel(viper.GetString("log_level"))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", viper.GetString("log_level"), err)
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./doi-fetch.yaml or ~/.config/doi-fetch/doi-fetch.yaml)")
	pf.String("output-dir", types.DefaultOutputDir, "directory that receives NNN.pdf files")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("mailto", "", "contact address sent to metadata services")
	pf.Bool("no-ledger", false, "do not record results in the run ledger")

	_ = viper.BindPFlag("output_dir", pf.Lookup("output-dir"))
	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("mailto", pf.Lookup("mailto"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("output_dir", types.DefaultOutputDir)
	viper.SetDefault("proxy_prefix", "")
	viper.SetDefault("user_agent", types.DefaultUserAgent)
	viper.SetDefault("mailto", "")
	viper.SetDefault("lookup.backend", types.DefaultLookupBackend)
	viper.SetDefault("lookup.timeout", types.DefaultLookupTimeout)
	viper.SetDefault("download.timeout", types.DefaultDownloadTimeout)
	viper.SetDefault("browser.input", types.DefaultBrowserInput)
	viper.SetDefault("browser.wait", types.DefaultBrowserWait)
	viper.SetDefault("browser.exec_path", "")
	viper.SetDefault("browser.remote_url", "")
	viper.SetDefault("browser.headless", false)
	viper.SetDefault("browser.link_text", types.DefaultLinkText)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("ledger", true)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doi-fetch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doi-fetch"))
		}
	}

	viper.SetEnvPrefix("DOI_FETCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
