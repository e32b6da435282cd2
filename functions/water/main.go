package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urbano-mdr/urbano/internal"
	"github.com/urbano-mdr/urbano/internal/config"
	"github.com/urbano-mdr/urbano/internal/handler"
	"github.com/urbano-mdr/urbano/internal/logging"
	"github.com/urbano-mdr/urbano/internal/observability"
	"github.com/urbano-mdr/urbano/internal/server"
	"github.com/urbano-mdr/urbano/internal/water"
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
		"service": internal.WaterServiceName,
		"env":     configs.Env,
		"version": configs.Version,
	})
}

func main() {
	metrics := observability.NewMetrics()
	loader := water.NewLoader(configs.WaterGeoJSON, metrics)
	// warm the cache; a failure is shown on the page and retried per request
	if _, err := loader.Dataset(context.Background()); err != nil {
		logging.Warn(context.Background(), err, logging.Data{"path": configs.WaterGeoJSON}, "water dataset not loaded")
	}
	// SIGHUP reloads the GeoJSON without a restart
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	go loader.ReloadOn(context.Background(), reload)

	h := handler.New(
		handler.WithWater(loader),
		handler.WithMetrics(metrics),
	)
	srv := server.New(internal.WaterServiceName, configs.Addr(), configs.ShutdownTimeout,
		server.WithMetrics(metrics),
	)
	h.RegisterWater(srv)
	srv.Run()
}
