package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"go-vacancy-collector/internal/collector"
	"go-vacancy-collector/internal/config"
	"go-vacancy-collector/internal/database"
	"go-vacancy-collector/internal/export"
	"go-vacancy-collector/internal/reporter"
	"go-vacancy-collector/internal/scraper"
	"go-vacancy-collector/pkg/logging"
	"go-vacancy-collector/pkg/sheets"
)

// AppContext holds what every command needs for one run.
type AppContext struct {
	Config *config.Config
	Logger *logging.Logger

	closers []func()
}

func NewAppContext(cmd *cli.Command) (*AppContext, error) {
	cfg, err := config.Load(cmd.String("config"), cmd.String("env"))
	if err != nil {
		return nil, err
	}
	if n := cmd.Int("retries"); n > 0 {
		cfg.Retry.Attempts = int(n)
	}
	return &AppContext{Config: cfg, Logger: logging.New(cfg.LogLevel)}, nil
}

func (ac *AppContext) Close() {
	for i := len(ac.closers) - 1; i >= 0; i-- {
		ac.closers[i]()
	}
	_ = ac.Logger.Sync()
}

func (ac *AppContext) RetryPolicy() scraper.RetryPolicy {
	return scraper.RetryPolicy{
		Attempts:        ac.Config.Retry.Attempts,
		InitialInterval: ac.Config.Retry.InitialInterval,
		MaxInterval:     ac.Config.Retry.MaxInterval,
	}
}

// Mirrors connects the optional sinks that are configured. A sink that cannot
// be set up is skipped with a warning; the CSV is still produced.
func (ac *AppContext) Mirrors(ctx context.Context, source string) []export.Exporter {
	var out []export.Exporter

	if sc := ac.Config.Sheets; sc.Enabled() {
		client, err := sheets.NewClient(ctx, sheets.Config{CredentialsPath: sc.CredentialsPath})
		if err != nil {
			ac.Logger.Warn("sheets export disabled", "error", err)
		} else {
			tab := sc.Tab
			if tab == "" {
				tab = source
			}
			out = append(out, export.Sheets{Client: client, SpreadsheetID: sc.SpreadsheetID, Tab: tab})
		}
	}

	if pc := ac.Config.Postgres; pc.Enabled() {
		repo, err := database.ConnectDB(ctx, pc.DSN, pc.Table)
		if err != nil {
			ac.Logger.Warn("postgres export disabled", "error", err)
		} else {
			ac.closers = append(ac.closers, repo.Close)
			out = append(out, export.Postgres{Repo: repo})
		}
	}

	return out
}

func (ac *AppContext) Notifier() collector.Notifier {
	if !ac.Config.Telegram.Enabled() {
		return nil
	}
	r, err := reporter.NewTelegramReporter(ac.Config.Telegram)
	if err != nil {
		ac.Logger.Warn("telegram summary disabled", "error", err)
		return nil
	}
	return r
}

// Collect runs source through the collector with the configured sinks.
func (ac *AppContext) Collect(ctx context.Context, name, output string, source collector.Runner) error {
	_, report, err := collector.Collect(ctx, collector.Run{
		Source:      name,
		Runner:      source,
		Output:      export.CSV{Path: output},
		Mirrors:     ac.Mirrors(ctx, name),
		Notifier:    ac.Notifier(),
		Sentinel:    ac.Config.Sentinel,
		PreviewRows: ac.Config.PreviewRows,
		PreviewOut:  os.Stdout,
		Logger:      ac.Logger,
	})
	fmt.Printf("Всего вакансий: %d\n", report.Stats.Records)
	fmt.Printf("Время выполнения: %.2f секунд\n", report.Elapsed.Seconds())
	return err
}

func outputPath(cmd *cli.Command, fallback string) string {
	if p := cmd.String("output"); p != "" {
		return p
	}
	return fallback
}
