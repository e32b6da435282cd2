package main

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/urbano-mdr/urbano/internal"
	"github.com/urbano-mdr/urbano/internal/config"
	"github.com/urbano-mdr/urbano/internal/handler"
	"github.com/urbano-mdr/urbano/internal/logging"
	"github.com/urbano-mdr/urbano/internal/observability"
	"github.com/urbano-mdr/urbano/internal/rainfall"
	"github.com/urbano-mdr/urbano/internal/server"
)

const datasetName = "rainfall"

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
		"service": internal.RainfallServiceName,
		"env":     configs.Env,
		"version": configs.Version,
	})
}

// loadDataset reads the CSV and falls back to generated sample rows when it
// cannot be used.
func loadDataset(m *observability.Metrics) *rainfall.Dataset {
	records, err := rainfall.Load(configs.RainfallCSV)
	if err != nil {
		m.DatasetLoads.WithLabelValues(datasetName, "sample").Inc()
		logging.Warn(context.Background(), err, logging.Data{"path": configs.RainfallCSV}, "rainfall data unavailable, serving sample data")
		records = rainfall.Sample(rand.New(rand.NewSource(time.Now().UnixNano())))
		m.DatasetRecords.WithLabelValues(datasetName).Set(float64(len(records)))
		return rainfall.NewDataset(records, true)
	}
	m.DatasetLoads.WithLabelValues(datasetName, "ok").Inc()
	m.DatasetRecords.WithLabelValues(datasetName).Set(float64(len(records)))
	logging.Info(context.Background(), logging.Data{"path": configs.RainfallCSV, "records": len(records)}, "rainfall data loaded")
	return rainfall.NewDataset(records, false)
}

func main() {
	metrics := observability.NewMetrics()
	h := handler.New(
		handler.WithRainfall(loadDataset(metrics)),
		handler.WithMetrics(metrics),
	)
	srv := server.New(internal.RainfallServiceName, configs.Addr(), configs.ShutdownTimeout,
		server.WithMetrics(metrics),
		server.WithCORS(configs.CORSAllowedOrigins),
		server.WithNotFound(http.HandlerFunc(handler.NotFoundJSON)),
	)
	h.RegisterRainfall(srv)
	srv.Run()
}
