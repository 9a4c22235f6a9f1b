// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pdiddy/doi-fetch/pkg/types"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    60,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// printSummary writes the per-item table and status counts for a run.
func printSummary(w io.Writer, s types.RunSummary) {
	if s.Total() == 0 {
		fmt.Fprintln(w, "No input lines.")
		return
	}
	rows := make([][]string, 0, len(s.Items))
	for _, it := range s.Items {
		detail := it.Error
		if it.TitleMismatch && detail == "" {
			detail = "title not found in reference"
		}
		rows = append(rows, []string{
			strconv.Itoa(it.Index),
			string(it.Status),
			it.DOI,
			detail,
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"#", "Status", "DOI", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	))

	fmt.Fprintf(w, "%s %s: %d downloaded, %d skipped, %d lookup-failed, %d download-failed, %d interaction-failed\n",
		s.Pipeline, shortID(s.RunID),
		s.Count(types.StatusDownloaded),
		s.Count(types.StatusSkipped),
		s.Count(types.StatusLookupFailed),
		s.Count(types.StatusDownloadFailed),
		s.Count(types.StatusInteractionFailed),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
