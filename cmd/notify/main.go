package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"storefront/internal/config"
	"storefront/internal/db"
	pushtokenrepo "storefront/internal/repository/pushtoken"
	pushsvc "storefront/internal/service/push"
)

// notify sends a push notification to every token registered for a
// customer email.
func main() {
	logger := logrus.New()

	app := &cli.App{
		Name:  "notify",
		Usage: "send a push notification to a customer's registered devices",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true, Usage: "customer email to notify"},
			&cli.StringFlag{Name: "title", Required: true, Usage: "notification title"},
			&cli.StringFlag{Name: "body", Required: true, Usage: "notification body"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.Connect(ctx, cfg.DBConnString)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := pushsvc.New(pushtokenrepo.NewPostgres(pool), cfg.FCMEndpoint, cfg.FCMServerKey, logger)
			return svc.SendToEmail(ctx, c.String("email"), c.String("title"), c.String("body"))
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("notify")
	}
}
