package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/urbano-mdr/urbano/internal/logging"
	"github.com/urbano-mdr/urbano/internal/storage"
)

// CreateReport inserts r and returns its id. Inserts are not retried.
func (s *Storage) CreateReport(ctx context.Context, r *storage.Report) (int64, error) {
	ts := time.Now()
	query := fmt.Sprintf(insertReportQuery, s.table)
	var id int64
	err := s.db().QueryRow(ctx, query,
		r.Street, r.Number, r.District,
		&r.Latitude, &r.Longitude,
		&r.PhotoPath, &r.Situations,
	).Scan(&id)
	if err != nil {
		logging.Error(ctx, err, nil, "insert error")
		return 0, storage.ErrStorage
	}
	logging.Info(ctx, logging.Data{"id": id, "query_time": time.Since(ts).String()}, "report saved")
	return id, nil
}

// ListReports returns every report, newest first.
func (s *Storage) ListReports(ctx context.Context) ([]storage.Report, error) {
	query := fmt.Sprintf(listReportsQuery, s.table)
	var rows []storage.Report
	err := s.retry(ctx, "list_reports", func(db *pgxpool.Pool) error {
		rows = rows[:0]
		return pgxscan.Select(ctx, db, &rows, query)
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReportPoints returns the located reports matching f.
func (s *Storage) ReportPoints(ctx context.Context, f storage.Filter) ([]storage.ReportPoint, error) {
	ts := time.Now()
	query, args := generatePointsQuery(s.table, f)
	var rows []storage.ReportPoint
	err := s.retry(ctx, "report_points", func(db *pgxpool.Pool) error {
		rows = rows[:0]
		return pgxscan.Select(ctx, db, &rows, query, args...)
	})
	if err != nil {
		return nil, err
	}
	logging.Debug(ctx, logging.Data{"rows": len(rows), "query_time": time.Since(ts).String()}, "points query stats")
	return rows, nil
}

// Distinct lists the non-empty values of column narrowed by the other
// filters.
func (s *Storage) Distinct(ctx context.Context, column string, f storage.Filter) ([]string, error) {
	query, args, err := generateDistinctQuery(s.table, column, f)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		V string `db:"v"`
	}
	err = s.retry(ctx, "distinct_"+column, func(db *pgxpool.Pool) error {
		rows = rows[:0]
		return pgxscan.Select(ctx, db, &rows, query, args...)
	})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.V)
	}
	return out, nil
}

const diagnosticsQuery = `select
	current_database() as "database",
	current_setting('client_encoding') as "client_encoding",
	current_setting('server_encoding') as "server_encoding",
	coalesce(current_setting('lc_messages', true), 'desconhecido') as "lc_messages"`

// Diagnostics reports the session encodings next to the configured one.
func (s *Storage) Diagnostics(ctx context.Context) (*storage.Diagnostics, error) {
	var row struct {
		Database       string `db:"database"`
		ClientEncoding string `db:"client_encoding"`
		ServerEncoding string `db:"server_encoding"`
		LCMessages     string `db:"lc_messages"`
	}
	err := s.retry(ctx, "diagnostics", func(db *pgxpool.Pool) error {
		return pgxscan.Get(ctx, db, &row, diagnosticsQuery)
	})
	if err != nil {
		return nil, err
	}
	return &storage.Diagnostics{
		Database:       row.Database,
		ClientEncoding: row.ClientEncoding,
		ServerEncoding: row.ServerEncoding,
		LCMessages:     row.LCMessages,
		Forced:         s.conf.ClientEncoding,
	}, nil
}
