package storage

import "context"

// Storage persists citizen reports and answers the dashboard queries.
type Storage interface {
	CreateReport(ctx context.Context, r *Report) (int64, error)
	ListReports(ctx context.Context) ([]Report, error)
	ReportPoints(ctx context.Context, f Filter) ([]ReportPoint, error)
	Distinct(ctx context.Context, column string, f Filter) ([]string, error)
	Diagnostics(ctx context.Context) (*Diagnostics, error)
	Ping(ctx context.Context) error
}
