package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "santa"
	app.Usage = "gift exchange bot and admin API"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "load environment variables from `FILE` before reading the configuration",
		},
	}
	app.Before = func(cctx *cli.Context) error {
		if file := cctx.String("env-file"); file != "" {
			return godotenv.Load(file)
		}
		return nil
	}
	app.Commands = []*cli.Command{
		{
			Action:      serve,
			Name:        "serve",
			Usage:       "Start the admin API and the bot",
			Category:    "Service",
			Description: `Runs migrations, then serves the admin HTTP API and polls bot updates until interrupted.`,
		},
		{
			Action:   runMigrations,
			Name:     "migrate",
			Usage:    "Apply database migrations",
			Category: "Maintenance",
		},
		{
			Action:   draw,
			Name:     "draw",
			Usage:    "Run the draw of a game",
			Category: "Maintenance",
			Flags: []cli.Flag{
				&cli.Int64Flag{Name: "game", Usage: "game id", Required: true},
				&cli.Int64Flag{Name: "actor", Usage: "id of the organizer or admin running the draw", Required: true},
			},
		},
		{
			Action:   setRole,
			Name:     "set-role",
			Usage:    "Change the role of a user",
			Category: "Maintenance",
			Flags: []cli.Flag{
				&cli.Int64Flag{Name: "user", Usage: "user id", Required: true},
				&cli.StringFlag{Name: "role", Usage: "user, admin or banned", Required: true},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
