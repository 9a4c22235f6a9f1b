// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doi-fetch/internal/batch"
	"github.com/pdiddy/doi-fetch/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent per-item results from the run ledger",
	Long: `History prints the items recorded by past resolve and browse runs against
output_dir, newest run first.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 50, "maximum number of items to show (0 for all)")
	historyCmd.Flags().Bool("yaml", false, "output entries as YAML")
	historyCmd.Flags().Bool("failed", false, "show only failed items")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg := loadConfig(cmd)
	dir := cfg.Resolver.OutputDir

	if !batch.Exists(filepath.Join(dir, ".doi-fetch.db")) {
		fmt.Printf("No run ledger in %s.\n", dir)
		return nil
	}

	l, err := ledger.Open(dir)
	if err != nil {
		return err
	}
	defer l.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	failedOnly, _ := cmd.Flags().GetBool("failed")

	entries, err := l.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if failedOnly {
		kept := entries[:0]
		for _, e := range entries {
			if e.Status.Failed() {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(entries)
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			shortID(e.RunID),
			e.Pipeline,
			e.Finished.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(e.Index),
			string(e.Status),
			e.DOI,
			e.Error,
		})
	}
	fmt.Println(renderTable(
		[]string{"Run", "Pipeline", "Finished", "#", "Status", "DOI", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	))
	return nil
}
