// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"

	"github.com/pdiddy/doi-fetch/pkg/types"
)

// Chrome is a Browser backed by a chromedp session. Downloads land in the
// configured output directory under their download GUID; completed
// downloads are reported by the browser's downloadProgress events.
type Chrome struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	dir         string
	profileDir  string
	wait        time.Duration

	mu        sync.Mutex
	seen      map[string]bool
	completed []string
}

// NewChrome starts (or attaches to) a browser and routes its downloads to
// cfg.OutputDir.
func NewChrome(ctx context.Context, cfg types.BrowserConfig) (*Chrome, error) {
	dir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
		profileDir  string
	)
	if cfg.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, cfg.RemoteURL)
	} else {
		profileDir, err = newProfile(dir)
		if err != nil {
			return nil, err
		}
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", cfg.Headless),
			chromedp.Flag("start-maximized", true),
			chromedp.UserDataDir(profileDir),
		)
		if cfg.ExecPath != "" {
			opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
		}
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, opts...)
	}

	bctx, cancel := chromedp.NewContext(allocCtx)
	c := &Chrome{
		ctx:         bctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		dir:         dir,
		profileDir:  profileDir,
		wait:        cfg.Wait,
		seen:        make(map[string]bool),
	}

	// The first Run launches the browser; listeners need a live target.
	if err := chromedp.Run(bctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("starting browser: %w", err)
	}
	chromedp.ListenBrowser(bctx, c.onEvent)
	chromedp.ListenTarget(bctx, c.onEvent)

	err = chromedp.Run(bctx,
		browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllowAndName).
			WithDownloadPath(dir).
			WithEventsEnabled(true),
	)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("configuring downloads: %w", err)
	}
	return c, nil
}

func (c *Chrome) onEvent(ev interface{}) {
	e, ok := ev.(*browser.EventDownloadProgress)
	if !ok || e.State != browser.DownloadProgressStateCompleted {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen[e.GUID] {
		return
	}
	c.seen[e.GUID] = true
	c.completed = append(c.completed, filepath.Join(c.dir, e.GUID))
}

// Navigate loads url. A navigation that turns into a file download is
// aborted by the browser; that is reported as success.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	err := c.run(ctx, 0, chromedp.Navigate(url))
	if err != nil && strings.Contains(err.Error(), "net::ERR_ABORTED") {
		return nil
	}
	return err
}

// ClickLink clicks the first anchor whose visible text contains text. It
// returns false without error when the page has no such anchor.
func (c *Chrome) ClickLink(ctx context.Context, text string) (bool, error) {
	var html string
	if err := c.run(ctx, c.wait, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return false, fmt.Errorf("reading page: %w", err)
	}
	links, err := FindLinks(html, text)
	if err != nil {
		return false, err
	}
	if len(links) == 0 {
		return false, nil
	}
	if err := c.run(ctx, c.wait, chromedp.Click(linkXPath(text), chromedp.BySearch)); err != nil {
		return false, fmt.Errorf("clicking %q (%s): %w", links[0].Text, links[0].Href, err)
	}
	return true, nil
}

// TakeDownload returns the most recent completed download since the last
// call and forgets the rest.
func (c *Chrome) TakeDownload() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.completed) == 0 {
		return "", false
	}
	latest := c.completed[len(c.completed)-1]
	c.completed = nil
	return latest, true
}

// Close shuts the browser down.
func (c *Chrome) Close() error {
	err := chromedp.Cancel(c.ctx)
	c.cancel()
	c.allocCancel()
	if c.profileDir != "" {
		os.RemoveAll(c.profileDir)
	}
	return err
}

// run executes actions on the browser context, honoring cancellation of
// ctx and an optional timeout.
func (c *Chrome) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	var (
		rctx   context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		rctx, cancel = context.WithTimeout(c.ctx, timeout)
	} else {
		rctx, cancel = context.WithCancel(c.ctx)
	}
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(rctx, actions...)
}
