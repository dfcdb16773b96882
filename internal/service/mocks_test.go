package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/bakery-finder/internal/dto"
	"github.com/octobees/bakery-finder/internal/entity"
)

func withBulkDelay(d time.Duration) EnrichmentOption {
	return func(s *EnrichmentService) {
		s.delay = d
	}
}

type mockBakeriesRepository struct {
	list     func(ctx context.Context, filter dto.ListFilter) ([]entity.Bakery, error)
	findByID func(ctx context.Context, id uuid.UUID) (*entity.Bakery, error)
	create   func(ctx context.Context, bakery *entity.Bakery) (*entity.Bakery, error)
	update   func(ctx context.Context, bakery *entity.Bakery) (*entity.Bakery, error)
	remove   func(ctx context.Context, id uuid.UUID) error
	apply    func(ctx context.Context, id uuid.UUID, patch entity.EnrichmentPatch) (*entity.Bakery, error)
}

func (m *mockBakeriesRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Bakery, error) {
	if m.list != nil {
		return m.list(ctx, filter)
	}
	return nil, errors.New("list not implemented")
}

func (m *mockBakeriesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bakery, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("find not implemented")
}

func (m *mockBakeriesRepository) Create(ctx context.Context, bakery *entity.Bakery) (*entity.Bakery, error) {
	if m.create != nil {
		return m.create(ctx, bakery)
	}
	return nil, errors.New("create not implemented")
}

func (m *mockBakeriesRepository) Update(ctx context.Context, bakery *entity.Bakery) (*entity.Bakery, error) {
	if m.update != nil {
		return m.update(ctx, bakery)
	}
	return nil, errors.New("update not implemented")
}

func (m *mockBakeriesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.remove != nil {
		return m.remove(ctx, id)
	}
	return errors.New("delete not implemented")
}

func (m *mockBakeriesRepository) ApplyEnrichment(ctx context.Context, id uuid.UUID, patch entity.EnrichmentPatch) (*entity.Bakery, error) {
	if m.apply != nil {
		return m.apply(ctx, id, patch)
	}
	return nil, errors.New("apply not implemented")
}

func (m *mockBakeriesRepository) Ping(ctx context.Context) error {
	return nil
}

// memoryRepository keeps bakeries in a map and applies patches the way the
// database statement does.
type memoryRepository struct {
	mockBakeriesRepository
	bakeries map[uuid.UUID]*entity.Bakery
	order    []uuid.UUID
	applied  []uuid.UUID
}

func newMemoryRepository(bakeries ...entity.Bakery) *memoryRepository {
	repo := &memoryRepository{bakeries: make(map[uuid.UUID]*entity.Bakery)}
	for i := range bakeries {
		b := bakeries[i]
		repo.bakeries[b.ID] = &b
		repo.order = append(repo.order, b.ID)
	}
	return repo
}

func (m *memoryRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Bakery, error) {
	out := make([]entity.Bakery, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.bakeries[id])
	}
	return out, nil
}

func (m *memoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bakery, error) {
	b, ok := m.bakeries[id]
	if !ok {
		return nil, ErrBakeryNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *memoryRepository) ApplyEnrichment(ctx context.Context, id uuid.UUID, patch entity.EnrichmentPatch) (*entity.Bakery, error) {
	if m.apply != nil {
		if _, err := m.apply(ctx, id, patch); err != nil {
			return nil, err
		}
	}
	b, ok := m.bakeries[id]
	if !ok {
		return nil, ErrBakeryNotFound
	}
	b.HasSemlor = patch.HasSemlor
	b.SemlorStatus = patch.SemlorStatus
	lastScraped := patch.LastScraped
	b.LastScraped = &lastScraped
	b.ScrapedData = patch.ScrapedData
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	m.applied = append(m.applied, id)
	copied := *b
	return &copied, nil
}

// stubSources returns canned results keyed by URL or handle and records calls.
type stubSources struct {
	websites  map[string]*entity.SourceResult
	instagram map[string]*entity.SourceResult
	calls     []string
}

func (s *stubSources) ScrapeWebsite(ctx context.Context, url string) *entity.SourceResult {
	s.calls = append(s.calls, "website:"+url)
	if res, ok := s.websites[url]; ok {
		copied := *res
		return &copied
	}
	return &entity.SourceResult{Error: "unexpected url " + url, SemlorStatus: entity.SemlorUnknown}
}

func (s *stubSources) ScrapeInstagram(ctx context.Context, handle string) *entity.SourceResult {
	s.calls = append(s.calls, "instagram:"+handle)
	if res, ok := s.instagram[handle]; ok {
		copied := *res
		return &copied
	}
	return &entity.SourceResult{Error: "unexpected handle " + handle, SemlorStatus: entity.SemlorUnknown}
}

var fixedNow = time.Date(2026, 2, 17, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func found(description string, mention bool) *entity.SourceResult {
	status := entity.SemlorUnknown
	if mention {
		status = entity.SemlorConfirmed
	}
	return &entity.SourceResult{
		Success:          true,
		Description:      description,
		HasSemlorMention: mention,
		SemlorStatus:     status,
	}
}

func failed(msg string) *entity.SourceResult {
	return &entity.SourceResult{Error: msg, SemlorStatus: entity.SemlorUnknown}
}
