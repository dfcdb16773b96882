package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/bakery-finder/internal/dto"
	"github.com/octobees/bakery-finder/internal/middleware"
	"github.com/octobees/bakery-finder/internal/service"
)

// ScrapingHandler triggers semlor enrichment for one or all bakeries.
type ScrapingHandler struct {
	service     *service.EnrichmentService
	bulkTimeout time.Duration
}

// NewScrapingHandler constructs a scraping handler. bulkTimeout bounds a
// POST /scraping/all run; zero disables the bound.
func NewScrapingHandler(service *service.EnrichmentService, bulkTimeout time.Duration) *ScrapingHandler {
	return &ScrapingHandler{service: service, bulkTimeout: bulkTimeout}
}

// ScrapeBakery handles POST /scraping/bakery/:id requests.
func (h *ScrapingHandler) ScrapeBakery(c echo.Context) error {
	result, err := h.service.Enrich(c.Request().Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBakeryID):
			return Error(c, http.StatusBadRequest, "invalid bakery id")
		case errors.Is(err, service.ErrBakeryNotFound):
			return Error(c, http.StatusNotFound, msgBakeryNotFound)
		default:
			zap.L().Error("scraping failed",
				zap.String("component", "handler.scraping"),
				zap.String("request_id", middleware.RequestIDFromContext(c)),
				zap.Error(err))
			return Error(c, http.StatusInternalServerError, err.Error())
		}
	}

	return Success(c, http.StatusOK, dto.ScrapeBakeryResponse{
		Message:         "Bakery scraped successfully",
		Bakery:          dto.NewBakeryResponse(*result.Bakery),
		ScrapingResults: result.Report,
	})
}

// ScrapeAll handles POST /scraping/all requests.
func (h *ScrapingHandler) ScrapeAll(c echo.Context) error {
	ctx := c.Request().Context()
	if h.bulkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.bulkTimeout)
		defer cancel()
	}

	outcomes, err := h.service.EnrichAll(ctx)
	if err != nil {
		zap.L().Error("bulk scraping failed",
			zap.String("component", "handler.scraping"),
			zap.String("request_id", middleware.RequestIDFromContext(c)),
			zap.Error(err))
		return Error(c, http.StatusInternalServerError, err.Error())
	}

	if len(outcomes) == 0 {
		return Success(c, http.StatusOK, dto.BulkScrapeResponse{Message: "No bakeries to scrape"})
	}

	return Success(c, http.StatusOK, dto.BulkScrapeResponse{
		Message: fmt.Sprintf("Scraped %d bakeries", len(outcomes)),
		Results: outcomes,
	})
}
