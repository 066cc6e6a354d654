package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"go-vacancy-collector/internal/browser"
	"go-vacancy-collector/internal/scraper/hh"
)

// HHAction scrapes every configured role with one headless browser.
func HHAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(cmd)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	cfg := appCtx.Config.HH
	if cmd.Bool("headful") {
		cfg.Headless = false
	}
	if err := appCtx.Config.ValidateHH(); err != nil {
		return err
	}
	log := appCtx.Logger.Named("hh")

	pm, err := browser.NewPlaywright(ctx, browser.Options{
		Headless:  cfg.Headless,
		UserAgent: cfg.UserAgent,
		Locale:    "ru-RU",
		Install:   cmd.Bool("install"),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := pm.Close(); err != nil {
			log.Warn("browser shutdown", "error", err)
		}
	}()

	cookies, err := browser.LoadCookies(cfg.CookiesFile)
	if err != nil {
		log.Warn("continuing without cookies", "error", err)
		cookies = nil
	}

	page, err := pm.NewPage(cookies)
	if err != nil {
		return fmt.Errorf("hh: %w", err)
	}
	log.Info("browser ready", "roles", len(cfg.Roles), "headless", cfg.Headless)

	pipeline := hh.NewPipeline(cfg, page, appCtx.Config.Sentinel, appCtx.RetryPolicy(), log)
	return appCtx.Collect(ctx, hh.SourceName, outputPath(cmd, cfg.OutputFile), pipeline)
}
