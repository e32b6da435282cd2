package main

import (
	"context"
	"time"

	"github.com/urbano-mdr/urbano/internal"
	"github.com/urbano-mdr/urbano/internal/config"
	"github.com/urbano-mdr/urbano/internal/handler"
	"github.com/urbano-mdr/urbano/internal/logging"
	"github.com/urbano-mdr/urbano/internal/notify"
	"github.com/urbano-mdr/urbano/internal/observability"
	"github.com/urbano-mdr/urbano/internal/server"
	"github.com/urbano-mdr/urbano/internal/storage/pg"
)

var (
	configs *config.Config
)

func init() {
	var err error
	configs, err = config.Load()
	if err != nil {
		logging.FatalNoCtx(err, nil, "failed to load configuration")
	}
	logging.Configure(configs.LogLevel, configs.LogFormat, logging.Data{
		"service": internal.ReportsServiceName,
		"env":     configs.Env,
		"version": configs.Version,
	})
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	stg, err := pg.New(ctx, configs)
	if err != nil {
		logging.FatalNoCtx(err, nil, "failed to start storage connection")
	}
	if configs.RunDBBootstrap {
		if err := stg.Bootstrap(ctx); err != nil {
			logging.FatalNoCtx(err, logging.Data{"schema": configs.DBSchema, "table": configs.TableName}, "failed to bootstrap database")
		}
	}
	cancel()
	defer stg.Close()

	publisher := notify.New(configs)
	defer publisher.Close()

	metrics := observability.NewMetrics()
	h := handler.New(
		handler.WithStorage(stg),
		handler.WithPublisher(publisher),
		handler.WithSecretKey(configs.SecretKey),
		handler.WithMetrics(metrics),
		handler.WithUploads(configs.UploadDir, configs.MaxUploadBytes),
		handler.WithRequireSituations(configs.RequireSituations),
	)
	srv := server.New(internal.ReportsServiceName, configs.Addr(), configs.ShutdownTimeout,
		server.WithMetrics(metrics),
		server.WithReadiness(server.ReadinessFunc(stg.Ping)),
	)
	h.RegisterReports(srv)
	srv.Run()
}
