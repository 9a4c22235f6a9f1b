// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// Defaults applied by the CLI when a setting is absent from flags, the
// environment, and the config file.
const (
	DefaultOutputDir       = "pdfs"
	DefaultUserAgent       = "doi-fetch/0.1"
	DefaultLookupBackend   = "crossref"
	DefaultLookupTimeout   = 20 * time.Second
	DefaultDownloadTimeout = 60 * time.Second
	DefaultBrowserInput    = "doi_links_unique.txt"
	DefaultBrowserWait     = 5 * time.Second
	DefaultLinkText        = "PDF"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the product token sent in the User-Agent header
	// (e.g. "doi-fetch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Mailto is a contact address appended to the User-Agent so metadata
	// services can reach the operator. Empty omits it.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`
}

// ContactAgent returns the User-Agent value with the contact address
// appended, e.g. "doi-fetch/0.1 (mailto:me@example.edu)".
func (c HTTPConfig) ContactAgent() string {
	agent := c.UserAgent
	if agent == "" {
		agent = DefaultUserAgent
	}
	if c.Mailto == "" {
		return agent
	}
	return fmt.Sprintf("%s (mailto:%s)", agent, c.Mailto)
}

// LookupConfig holds settings for the bibliographic metadata lookup.
type LookupConfig struct {
	HTTPConfig `yaml:",inline"`

	// Backend selects the metadata service: "crossref" or "openalex".
	Backend string `json:"backend" yaml:"backend"`
}

// ResolverConfig holds settings for the reference resolver pipeline.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is the directory that receives NNN.pdf artifacts.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ProxyPrefix is prepended to https://doi.org/<doi> to route the
	// request through an institutional proxy. Empty requests doi.org directly.
	ProxyPrefix string `json:"proxy_prefix" yaml:"proxy_prefix"`

	// Lookup configures the metadata service used when a reference carries
	// no DOI link.
	Lookup LookupConfig `json:"lookup" yaml:"lookup"`
}

// BrowserConfig holds settings for the browser-driven downloader.
type BrowserConfig struct {
	// InputFile lists one DOI URL per line.
	InputFile string `json:"input" yaml:"input"`

	// OutputDir is the browser download directory and the home of NNN.pdf.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Wait is the fixed delay after navigation and after clicking a link.
	Wait time.Duration `json:"wait" yaml:"wait"`

	// ExecPath is the browser binary. Empty lets chromedp locate Chrome.
	ExecPath string `json:"exec_path,omitempty" yaml:"exec_path,omitempty"`

	// RemoteURL is the DevTools websocket URL of an already running
	// browser. When set, no local browser is started.
	RemoteURL string `json:"remote_url,omitempty" yaml:"remote_url,omitempty"`

	// Headless runs the local browser without a window.
	Headless bool `json:"headless" yaml:"headless"`

	// LinkText is the partial link text clicked to start a download.
	LinkText string `json:"link_text" yaml:"link_text"`
}

// Config groups all pipeline configurations.
type Config struct {
	Resolver ResolverConfig `json:"resolver" yaml:"resolver"`
	Browser  BrowserConfig  `json:"browser" yaml:"browser"`

	// LogLevel is the minimum log level: debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`

	// Ledger enables the SQLite run ledger in the output directory.
	Ledger bool `json:"ledger" yaml:"ledger"`
}
