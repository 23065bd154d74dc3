package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"follohjelp/internal/email"
	"follohjelp/internal/kpi"
	"follohjelp/internal/matching"
	"follohjelp/internal/server"
	"follohjelp/internal/submission"

	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	logger := newLogger(config)

	mailer, err := email.New(ctx, config, logger)
	if err != nil {
		return err
	}

	app := buildComponents(config, logger)

	srv := server.New(config, logger, server.Deps{
		Providers:  app.providers,
		Options:    app.options,
		Leads:      app.leads,
		Matcher:    matching.NewRouter(app.providers, config, logger),
		Classifier: submission.NewClassifier(app.options),
		KPIs:       kpi.NewService(app.leads, app.providers),
		Mailer:     mailer,
	})

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
