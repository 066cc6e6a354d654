package hh

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-vacancy-collector/internal/browser"
	"go-vacancy-collector/internal/config"
	"go-vacancy-collector/pkg/logging"
	"go-vacancy-collector/utils"
)

// Fetcher renders search pages in a single browser tab.
type Fetcher struct {
	tab    Tab
	cfg    config.HHConfig
	shots  *utils.ScreenShotDebugger
	logger *logging.Logger
}

func NewFetcher(tab Tab, cfg config.HHConfig, shots *utils.ScreenShotDebugger, logger *logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Fetcher{tab: tab, cfg: cfg, shots: shots, logger: logger}
}

func (f *Fetcher) Fetch(ctx context.Context, ref PageRef) (Page, error) {
	html, err := f.load(ctx, ref, f.cfg.SettleDelay)
	if err != nil {
		return Page{}, err
	}
	return Page{Ref: ref, HTML: html}, nil
}

// Probe loads the first page of role for page counting.
func (f *Fetcher) Probe(ctx context.Context, role int) (string, error) {
	return f.load(ctx, PageRef{Role: role}, f.cfg.ProbeSettleDelay)
}

func (f *Fetcher) load(ctx context.Context, ref PageRef, settle time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	url := BuildURL(f.cfg.URLTemplate, ref)
	f.logger.Debug("opening page", "url", url)

	resp, err := f.tab.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(f.cfg.NavigationTimeout.Milliseconds())),
	})
	if err != nil {
		name := fmt.Sprintf("hh_role%d_page%d", ref.Role, ref.Page)
		if _, shotErr := f.shots.CaptureAndLog(f.tab, name, "hh: navigation failed"); shotErr != nil {
			f.logger.Debug("screenshot skipped", "error", shotErr)
		}
		return "", fmt.Errorf("hh: open %s: %w", url, err)
	}
	if resp != nil && resp.Status() >= 400 {
		return "", fmt.Errorf("hh: open %s: status %d", url, resp.Status())
	}

	if err := browser.Sleep(ctx, settle); err != nil {
		return "", err
	}
	if _, err := browser.ScrollToEnd(ctx, f.tab, f.cfg.ScrollPause, f.cfg.MaxScrolls); err != nil {
		return "", fmt.Errorf("hh: scroll %s: %w", ref, err)
	}

	html, err := f.tab.Content()
	if err != nil {
		return "", fmt.Errorf("hh: read content %s: %w", ref, err)
	}
	return html, nil
}
