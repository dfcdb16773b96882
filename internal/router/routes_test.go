package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/octobees/bakery-finder/internal/config"
	"github.com/octobees/bakery-finder/internal/dto"
	"github.com/octobees/bakery-finder/internal/entity"
	"github.com/octobees/bakery-finder/internal/handler"
	"github.com/octobees/bakery-finder/internal/repository"
	"github.com/octobees/bakery-finder/internal/service"
)

type emptyRepo struct{}

func (emptyRepo) List(ctx context.Context, filter dto.ListFilter) ([]entity.Bakery, error) {
	return nil, nil
}

func (emptyRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bakery, error) {
	return nil, repository.ErrBakeryNotFound
}

func (emptyRepo) Create(ctx context.Context, bakery *entity.Bakery) (*entity.Bakery, error) {
	return bakery, nil
}

func (emptyRepo) Update(ctx context.Context, bakery *entity.Bakery) (*entity.Bakery, error) {
	return nil, repository.ErrBakeryNotFound
}

func (emptyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return repository.ErrBakeryNotFound
}

func (emptyRepo) ApplyEnrichment(ctx context.Context, id uuid.UUID, patch entity.EnrichmentPatch) (*entity.Bakery, error) {
	return nil, repository.ErrBakeryNotFound
}

func (emptyRepo) Ping(ctx context.Context) error { return nil }

type noSources struct{}

func (noSources) ScrapeWebsite(ctx context.Context, url string) *entity.SourceResult {
	return &entity.SourceResult{SemlorStatus: entity.SemlorUnknown}
}

func (noSources) ScrapeInstagram(ctx context.Context, handle string) *entity.SourceResult {
	return &entity.SourceResult{SemlorStatus: entity.SemlorUnknown}
}

func newTestServer(rl config.RateLimitConfig) http.Handler {
	cfg := &config.Config{
		AllowedOrigins:  []string{"http://localhost:3000"},
		RateLimitScrape: rl,
	}
	repo := emptyRepo{}
	return New(cfg, zap.NewNop(), Handlers{
		Health:   handler.NewHealthHandler(repo),
		Bakeries: handler.NewBakeriesHandler(service.NewBakeriesService(repo, nil)),
		Scraping: handler.NewScrapingHandler(service.NewEnrichmentService(repo, noSources{}), time.Second),
	})
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(config.RateLimitConfig{})

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/bakeries", http.StatusOK},
		{http.MethodGet, "/api/bakeries/" + uuid.NewString(), http.StatusNotFound},
		{http.MethodPut, "/api/bakeries/" + uuid.NewString(), http.StatusNotFound},
		{http.MethodDelete, "/api/bakeries/" + uuid.NewString(), http.StatusNotFound},
		{http.MethodPost, "/api/scraping/bakery/" + uuid.NewString(), http.StatusNotFound},
		{http.MethodPost, "/api/scraping/bakery/oops", http.StatusBadRequest},
		{http.MethodPost, "/api/scraping/all", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.want, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRoutes_ScrapingIsRateLimited(t *testing.T) {
	srv := newTestServer(config.RateLimitConfig{Requests: 1, Interval: time.Minute})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/scraping/all", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/scraping/all", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bakeries", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_CORS(t *testing.T) {
	srv := newTestServer(config.RateLimitConfig{})

	req := httptest.NewRequest(http.MethodGet, "/api/bakeries", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/bakeries", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
