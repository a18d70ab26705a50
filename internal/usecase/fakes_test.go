package usecase

import (
	"context"
	"errors"
	"sync"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"
)

type fakeStore struct {
	mu       sync.Mutex
	raw      *models.RawConfigPayload
	fetchErr error
	saveErr  error
	fetches  int
	stocks   []models.WireStock
	strategy models.StrategyMapping
}

func (s *fakeStore) FetchConfig(context.Context) (*models.RawConfigPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.raw, nil
}

func (s *fakeStore) SaveWatchlist(_ context.Context, stocks []models.WireStock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.stocks = stocks
	return nil
}

func (s *fakeStore) SaveStrategy(_ context.Context, m models.StrategyMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.strategy = m
	return nil
}

func (s *fakeStore) Close() error { return nil }

type fakeSource struct {
	mu      sync.Mutex
	rows    []models.SnapshotRow
	err     error
	fetches int
}

func (s *fakeSource) FetchSnapshots(context.Context) ([]models.SnapshotRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	return s.rows, s.err
}

func (s *fakeSource) Close() error { return nil }

type fakePublisher struct {
	events []models.ConfigEvent
	err    error
}

func (p *fakePublisher) PublishConfigEvent(_ context.Context, ev models.ConfigEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

var errDown = errors.New("connection refused")

var (
	_ domrepo.ConfigStore    = (*fakeStore)(nil)
	_ domrepo.SnapshotSource = (*fakeSource)(nil)
	_ domrepo.EventPublisher = (*fakePublisher)(nil)
)
