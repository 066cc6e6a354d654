package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"go-vacancy-collector/cmd/scraper/commands"
	"go-vacancy-collector/internal/config"
)

func commonFlags(output string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML config file",
			Value: config.DefaultPath,
		},
		&cli.StringFlag{
			Name:  "env",
			Usage: "env file with credentials",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "CSV output path (default " + output + ")",
		},
		&cli.IntFlag{
			Name:  "retries",
			Usage: "fetch attempts per page or vacancy",
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "scraper",
		Usage: "collect job vacancies from hh.ru and rabota.ru into CSV",
		Commands: []*cli.Command{
			{
				Name:  "hh",
				Usage: "scrape hh.ru search results with a headless browser",
				Flags: append(commonFlags("vacancies.csv"),
					&cli.BoolFlag{
						Name:  "headful",
						Usage: "show the browser window",
					},
					&cli.BoolFlag{
						Name:  "install",
						Usage: "download the playwright driver and chromium first",
					},
				),
				Action: commands.HHAction,
			},
			{
				Name:   "rabota",
				Usage:  "fetch vacancies by ID from the rabota.ru API",
				Flags:  commonFlags("rabota_ru_vacancies.csv"),
				Action: commands.RabotaAction,
				Commands: []*cli.Command{
					{
						Name:   "authorize-url",
						Usage:  "print the URL that grants this app access from a new device",
						Flags:  commonFlags("rabota_ru_vacancies.csv"),
						Action: commands.RabotaAuthorizeURLAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
