package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Options configures the single browser session of a run.
type Options struct {
	Headless  bool
	UserAgent string
	Locale    string
	// Install downloads the driver and Chromium before launching.
	Install bool
}

// PlaywrightManager owns the playwright driver and one Chromium instance.
// Close must be called on every exit path.
type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
}

func NewPlaywright(ctx context.Context, opts Options) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Install {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("browser: install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("browser: start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("browser: launch chromium: %w", err)
	}

	return &PlaywrightManager{pw: pw, browser: b, opts: opts}, nil
}

// NewContext opens an isolated browser context preloaded with cookies.
func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	ctxOpts := playwright.BrowserNewContextOptions{}
	if pm.opts.UserAgent != "" {
		ctxOpts.UserAgent = playwright.String(pm.opts.UserAgent)
	}
	if pm.opts.Locale != "" {
		ctxOpts.Locale = playwright.String(pm.opts.Locale)
	}

	bctx, err := pm.browser.NewContext(ctxOpts)
	if err != nil {
		return nil, fmt.Errorf("browser: new context: %w", err)
	}

	if len(cookies) > 0 {
		if err := bctx.AddCookies(cookies); err != nil {
			_ = bctx.Close()
			return nil, fmt.Errorf("browser: add cookies: %w", err)
		}
	}
	return bctx, nil
}

// NewPage opens a context with cookies and a single page in it.
func (pm *PlaywrightManager) NewPage(cookies []playwright.OptionalCookie) (playwright.Page, error) {
	bctx, err := pm.NewContext(cookies)
	if err != nil {
		return nil, err
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("browser: new page: %w", err)
	}
	return page, nil
}

// Close shuts the browser and the driver down. Safe to call more than once.
func (pm *PlaywrightManager) Close() error {
	if pm == nil {
		return nil
	}
	var errs []error
	if pm.browser != nil {
		if err := pm.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("browser: close chromium: %w", err))
		}
		pm.browser = nil
	}
	if pm.pw != nil {
		if err := pm.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("browser: stop playwright: %w", err))
		}
		pm.pw = nil
	}
	return errors.Join(errs...)
}
