package main

import (
	"context"
	"time"

	"github.com/urbano-mdr/urbano/internal"
	"github.com/urbano-mdr/urbano/internal/config"
	"github.com/urbano-mdr/urbano/internal/handler"
	"github.com/urbano-mdr/urbano/internal/logging"
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
		"service": internal.DashboardServiceName,
		"env":     configs.Env,
		"version": configs.Version,
	})
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	stg, err := pg.New(ctx, configs)
	cancel()
	if err != nil {
		logging.FatalNoCtx(err, nil, "failed to start storage connection")
	}
	defer stg.Close()

	metrics := observability.NewMetrics()
	h := handler.New(
		handler.WithStorage(stg),
		handler.WithMetrics(metrics),
	)
	srv := server.New(internal.DashboardServiceName, configs.Addr(), configs.ShutdownTimeout,
		server.WithMetrics(metrics),
		server.WithReadiness(server.ReadinessFunc(stg.Ping)),
	)
	h.RegisterDashboard(srv)
	srv.Run()
}
