package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/urbano-mdr/urbano/internal/storage"
)

// StorageMock is an in-memory storage.Storage with call recording.
type StorageMock struct {
	mu sync.Mutex

	Reports      []storage.Report
	Points       []storage.ReportPoint
	DistinctVals map[string][]string
	Diag         *storage.Diagnostics
	Err          error

	CreateCalls   int
	Created       []storage.Report
	CalledFilters []storage.Filter
	DistinctCalls map[string]storage.Filter
}

func (s *StorageMock) CreateReport(_ context.Context, r *storage.Report) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateCalls++
	if s.Err != nil {
		return 0, s.Err
	}
	rep := *r
	rep.ID = int64(len(s.Created) + 1)
	s.Created = append(s.Created, rep)
	return rep.ID, nil
}

func (s *StorageMock) ListReports(_ context.Context) ([]storage.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Reports, nil
}

func (s *StorageMock) ReportPoints(_ context.Context, f storage.Filter) ([]storage.ReportPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CalledFilters = append(s.CalledFilters, f)
	if s.Err != nil {
		return nil, s.Err
	}
	var out []storage.ReportPoint
	for _, p := range s.Points {
		if f.District != "" && p.District != f.District {
			continue
		}
		if f.Street != "" && p.Street != f.Street {
			continue
		}
		if f.Situation != "" && p.Situations != f.Situation {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *StorageMock) Distinct(_ context.Context, column string, f storage.Filter) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DistinctCalls == nil {
		s.DistinctCalls = make(map[string]storage.Filter)
	}
	s.DistinctCalls[column] = f
	if s.Err != nil {
		return nil, s.Err
	}
	return s.DistinctVals[column], nil
}

func (s *StorageMock) Diagnostics(_ context.Context) (*storage.Diagnostics, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Diag == nil {
		return nil, errors.New("mock not configured")
	}
	return s.Diag, nil
}

func (s *StorageMock) Ping(_ context.Context) error {
	return s.Err
}
