package internal

// constants exported by this package
const (
	// services
	ReportsServiceName   = "urbano-reports"
	DashboardServiceName = "urbano-dashboard"
	RainfallServiceName  = "urbano-rainfall"
	WaterServiceName     = "urbano-water"

	// endpoints
	ReportFormEndpoint    = "ReportForm"
	ReportSubmitEndpoint  = "ReportSubmit"
	ReportListEndpoint    = "ReportList"
	DebugEncodingEndpoint = "DebugEncoding"
	UploadsEndpoint       = "Uploads"

	DashboardEndpoint = "Dashboard"

	RainfallIndexEndpoint          = "RainfallIndex"
	RainfallDataEndpoint           = "RainfallData"
	RainfallStatsEndpoint          = "RainfallStats"
	RainfallTimelineEndpoint       = "RainfallTimeline"
	RainfallMunicipalitiesEndpoint = "RainfallMunicipalities"
	RainfallDownloadEndpoint       = "RainfallDownload"
	RainfallHeatmapEndpoint        = "RainfallHeatmap"

	WaterDashboardEndpoint = "WaterDashboard"
)
