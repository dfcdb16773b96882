package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/bakery-finder/internal/dto"
	"github.com/octobees/bakery-finder/internal/service"
)

const msgBakeryNotFound = "Bakery not found"

// BakeriesHandler exposes the bakery directory endpoints.
type BakeriesHandler struct {
	service *service.BakeriesService
}

// NewBakeriesHandler creates a new handler instance.
func NewBakeriesHandler(service *service.BakeriesService) *BakeriesHandler {
	return &BakeriesHandler{service: service}
}

// List handles GET /bakeries requests.
func (h *BakeriesHandler) List(c echo.Context) error {
	filter := dto.ListFilter{
		Q:            strings.TrimSpace(c.QueryParam("q")),
		SemlorStatus: strings.TrimSpace(c.QueryParam("status")),
		Sort:         strings.TrimSpace(c.QueryParam("sort")),
	}

	bakeries, err := h.service.ListBakeries(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err, "failed to list bakeries")
	}
	return Success(c, http.StatusOK, dto.NewBakeryResponses(bakeries))
}

// Get handles GET /bakeries/:id requests.
func (h *BakeriesHandler) Get(c echo.Context) error {
	bakery, err := h.service.GetBakery(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err, "failed to load bakery")
	}
	return Success(c, http.StatusOK, dto.NewBakeryResponse(*bakery))
}

// Create handles POST /bakeries requests.
func (h *BakeriesHandler) Create(c echo.Context) error {
	var req dto.CreateBakeryRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	bakery, err := h.service.CreateBakery(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err, "failed to create bakery")
	}
	return Success(c, http.StatusCreated, dto.NewBakeryResponse(*bakery))
}

// Update handles PUT /bakeries/:id requests.
func (h *BakeriesHandler) Update(c echo.Context) error {
	var req dto.UpdateBakeryRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	bakery, err := h.service.UpdateBakery(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.fail(c, err, "failed to update bakery")
	}
	return Success(c, http.StatusOK, dto.NewBakeryResponse(*bakery))
}

// Delete handles DELETE /bakeries/:id requests.
func (h *BakeriesHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteBakery(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err, "failed to delete bakery")
	}
	return Message(c, http.StatusOK, "Bakery deleted")
}

func (h *BakeriesHandler) fail(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrInvalidBakeryID):
		return Error(c, http.StatusBadRequest, "invalid bakery id")
	case errors.Is(err, service.ErrBakeryNotFound):
		return Error(c, http.StatusNotFound, msgBakeryNotFound)
	case service.IsValidationError(err):
		return Error(c, http.StatusBadRequest, err.Error())
	default:
		zap.L().Error(fallback, zap.String("component", "handler.bakeries"), zap.Error(err))
		return Error(c, http.StatusInternalServerError, fallback)
	}
}
