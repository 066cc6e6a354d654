package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"go-vacancy-collector/internal/scraper/rabota"
)

// RabotaAction authenticates and walks the configured vacancy ID range.
func RabotaAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(cmd)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	cfg := appCtx.Config.Rabota
	if err := appCtx.Config.ValidateRabota(); err != nil {
		return err
	}

	log := appCtx.Logger.Named("rabota")
	source := rabota.NewSource(rabota.NewClient(cfg), cfg, appCtx.Config.Sentinel, appCtx.RetryPolicy(), log)

	return appCtx.Collect(ctx, rabota.SourceName, outputPath(cmd, cfg.OutputFile), source)
}

func RabotaAuthorizeURLAction(_ context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(cmd)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	cfg := appCtx.Config.Rabota
	if cfg.Credentials.AppID == "" {
		return fmt.Errorf("missing required environment variables: APP_ID")
	}
	fmt.Println(rabota.NewClient(cfg).AuthorizeURL(cfg.RedirectURI))
	return nil
}
