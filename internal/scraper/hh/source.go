package hh

import (
	"go-vacancy-collector/internal/config"
	"go-vacancy-collector/internal/scraper"
	"go-vacancy-collector/pkg/logging"
	"go-vacancy-collector/utils"
)

const SourceName = "hh"

// NewPipeline wires the hh scrape over an open browser tab.
func NewPipeline(cfg config.HHConfig, tab Tab, sentinel string, retry scraper.RetryPolicy, logger *logging.Logger) *scraper.Pipeline[PageRef, Page] {
	if logger == nil {
		logger = logging.Nop()
	}
	shots := utils.NewScreenShotDebugger(cfg.ScreenshotDir, logger)
	fetcher := NewFetcher(tab, cfg, shots, logger)

	return &scraper.Pipeline[PageRef, Page]{
		Name:                   SourceName,
		Units:                  NewEnumerator(cfg.Roles, fetcher, cfg.Selectors.Pager),
		Fetcher:                scraper.WithRetry[PageRef, Page](fetcher, retry),
		Extractor:              NewExtractor(cfg.Selectors, sentinel),
		Columns:                Columns,
		MaxConsecutiveFailures: cfg.MaxConsecutiveFailures,
		Logger:                 logger,
	}
}
