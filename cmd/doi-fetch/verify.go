// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doi-fetch/internal/batch"
	"github.com/pdiddy/doi-fetch/internal/pdfscan"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <annotated_file>",
	Short: "Check downloaded PDFs against the DOIs they were resolved to",
	Long: `Verify reads an output file written by resolve and, for every reference
with a DOI, opens <output_dir>/NNN.pdf and looks for a DOI in its first
pages. A proxy login page saved under a .pdf name, or a publisher serving
the wrong paper, shows up as unreadable or mismatch.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cfg := loadConfig(cmd)

	records, err := batch.ReadLines(args[0])
	if err != nil {
		return err
	}

	findings := pdfscan.Audit(records, cfg.Resolver.OutputDir)
	if len(findings) == 0 {
		fmt.Println("No resolved references to verify.")
		return nil
	}

	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		detail := f.Found
		if f.Error != "" {
			detail = f.Error
		}
		rows = append(rows, []string{strconv.Itoa(f.Index), string(f.Status), f.Expected, detail})
	}
	fmt.Println(renderTable(
		[]string{"#", "Status", "Expected DOI", "Found"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	))

	mismatched := pdfscan.Count(findings, pdfscan.StatusMismatch)
	fmt.Fprintf(os.Stdout, "%d match, %d mismatch, %d missing, %d unreadable, %d no-doi\n",
		pdfscan.Count(findings, pdfscan.StatusMatch),
		mismatched,
		pdfscan.Count(findings, pdfscan.StatusMissing),
		pdfscan.Count(findings, pdfscan.StatusUnreadable),
		pdfscan.Count(findings, pdfscan.StatusNoDOI),
	)
	if mismatched > 0 {
		return fmt.Errorf("%d PDF(s) carry a different DOI", mismatched)
	}
	return nil
}
