// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/doi-fetch/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	setDefaults()
	t.Cleanup(func() { viper.Reset(); setDefaults() })
	loadedSecrets = nil

	cfg := loadConfig(resolveCmd)

	assert.Equal(t, types.DefaultOutputDir, cfg.Resolver.OutputDir)
	assert.Equal(t, types.DefaultOutputDir, cfg.Browser.OutputDir)
	assert.Empty(t, cfg.Resolver.ProxyPrefix)
	assert.Equal(t, types.DefaultDownloadTimeout, cfg.Resolver.Timeout)
	assert.Equal(t, types.DefaultLookupTimeout, cfg.Resolver.Lookup.Timeout)
	assert.Equal(t, types.DefaultLookupBackend, cfg.Resolver.Lookup.Backend)
	assert.Equal(t, types.DefaultBrowserInput, cfg.Browser.InputFile)
	assert.Equal(t, types.DefaultBrowserWait, cfg.Browser.Wait)
	assert.Equal(t, types.DefaultLinkText, cfg.Browser.LinkText)
	assert.False(t, cfg.Browser.Headless)
	assert.True(t, cfg.Ledger)
}

func TestLoadConfigSecretsFillEmptyValues(t *testing.T) {
	viper.Reset()
	setDefaults()
	t.Cleanup(func() { viper.Reset(); setDefaults(); loadedSecrets = nil })

	loadedSecrets = map[string]string{
		"mailto":       "secret@example.edu",
		"proxy-prefix": "https://secret-proxy/?url=",
	}
	viper.Set("browser.wait", 2*time.Second)

	cfg := loadConfig(resolveCmd)
	assert.Equal(t, "secret@example.edu", cfg.Resolver.Mailto)
	assert.Equal(t, "secret@example.edu", cfg.Resolver.Lookup.Mailto)
	assert.Equal(t, "https://secret-proxy/?url=", cfg.Resolver.ProxyPrefix)
	assert.Equal(t, 2*time.Second, cfg.Browser.Wait)

	viper.Set("proxy_prefix", "https://configured/?url=")
	cfg = loadConfig(resolveCmd)
	assert.Equal(t, "https://configured/?url=", cfg.Resolver.ProxyPrefix, "configured value wins over secret")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	s := types.RunSummary{RunID: "0123456789abcdef", Pipeline: "resolve"}
	s.Add(types.ItemResult{Index: 1, DOI: "10.1234/a", Status: types.StatusDownloaded})
	s.Add(types.ItemResult{Index: 2, Status: types.StatusLookupFailed, Error: "no matching work found"})
	s.Add(types.ItemResult{Index: 3, DOI: "10.1234/c", Status: types.StatusSkipped, TitleMismatch: true})

	printSummary(&buf, s)
	out := buf.String()

	assert.Contains(t, out, "10.1234/a")
	assert.Contains(t, out, "no matching work found")
	assert.Contains(t, out, "title not found in reference")
	assert.Contains(t, out, "resolve 01234567: 1 downloaded, 1 skipped, 1 lookup-failed, 0 download-failed, 0 interaction-failed")
}

func TestPrintSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, types.RunSummary{Pipeline: "browse"})
	assert.Equal(t, "No input lines.\n", buf.String())
}

func TestRenderTableShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, nil)
	assert.Contains(t, out, "only")
	assert.Empty(t, renderTable(nil, nil, nil))
}

func TestResolveArgs(t *testing.T) {
	assert.Error(t, resolveCmd.Args(resolveCmd, nil))
	assert.Error(t, resolveCmd.Args(resolveCmd, []string{"refs.txt"}))
	assert.NoError(t, resolveCmd.Args(resolveCmd, []string{"refs.txt", "out.txt"}))
	assert.NoError(t, resolveCmd.Args(resolveCmd, []string{"refs.txt", "out.txt", "extra"}), "extra arguments are ignored")
}
