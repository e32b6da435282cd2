package handler

import (
	"net/http"

	"github.com/urbano-mdr/urbano/internal"
	"github.com/urbano-mdr/urbano/internal/server"
)

// RegisterReports mounts the report form endpoints.
func (h *Handler) RegisterReports(s *server.Server) {
	s.MustAddRoute(server.RouteOption{API: internal.ReportFormEndpoint, Method: http.MethodGet, Path: "/"}, http.HandlerFunc(h.ReportForm))
	s.MustAddRoute(server.RouteOption{API: internal.ReportSubmitEndpoint, Method: http.MethodPost, Path: "/enviar"}, http.HandlerFunc(h.SubmitReport))
	s.MustAddRoute(server.RouteOption{API: internal.ReportListEndpoint, Method: http.MethodGet, Path: "/lista"}, http.HandlerFunc(h.ListReports))
	s.MustAddRoute(server.RouteOption{API: internal.DebugEncodingEndpoint, Method: http.MethodGet, Path: "/debug-enc"}, http.HandlerFunc(h.DebugEncoding))
	s.MustAddRoute(server.RouteOption{API: internal.UploadsEndpoint, Method: http.MethodGet, Path: UploadsURLPrefix, Prefix: true}, h.Uploads())
}

// RegisterDashboard mounts the reports dashboard.
func (h *Handler) RegisterDashboard(s *server.Server) {
	s.MustAddRoute(server.RouteOption{API: internal.DashboardEndpoint, Method: http.MethodGet, Path: "/"}, http.HandlerFunc(h.Dashboard))
}

// RegisterRainfall mounts the rainfall page and JSON API.
func (h *Handler) RegisterRainfall(s *server.Server) {
	s.MustAddRoute(server.RouteOption{API: internal.RainfallIndexEndpoint, Method: http.MethodGet, Path: "/"}, http.HandlerFunc(h.RainfallIndex))
	s.MustAddRoute(server.RouteOption{API: internal.RainfallDataEndpoint, Method: http.MethodGet, Path: "/data"}, server.ToHTTPHandlerFunc(h.RainfallData))
	s.MustAddRoute(server.RouteOption{API: internal.RainfallStatsEndpoint, Method: http.MethodGet, Path: "/stats"}, server.ToHTTPHandlerFunc(h.RainfallStats))
	s.MustAddRoute(server.RouteOption{API: internal.RainfallTimelineEndpoint, Method: http.MethodGet, Path: "/timeline"}, server.ToHTTPHandlerFunc(h.RainfallTimeline))
	s.MustAddRoute(server.RouteOption{API: internal.RainfallMunicipalitiesEndpoint, Method: http.MethodGet, Path: "/municipios"}, server.ToHTTPHandlerFunc(h.RainfallMunicipalities))
	s.MustAddRoute(server.RouteOption{API: internal.RainfallDownloadEndpoint, Method: http.MethodGet, Path: "/download"}, http.HandlerFunc(h.RainfallDownload))
	s.MustAddRoute(server.RouteOption{API: internal.RainfallHeatmapEndpoint, Method: http.MethodGet, Path: "/heatmap"}, server.ToHTTPHandlerFunc(h.RainfallHeatmap))
}

// RegisterWater mounts the water dashboard.
func (h *Handler) RegisterWater(s *server.Server) {
	s.MustAddRoute(server.RouteOption{API: internal.WaterDashboardEndpoint, Method: http.MethodGet, Path: "/"}, http.HandlerFunc(h.WaterDashboard))
}
