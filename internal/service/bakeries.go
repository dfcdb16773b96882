package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/octobees/bakery-finder/internal/dto"
	"github.com/octobees/bakery-finder/internal/entity"
	"github.com/octobees/bakery-finder/internal/repository"
)

// BakeriesService exposes read/write operations for the bakery directory.
type BakeriesService struct {
	repo       repository.BakeriesRepository
	normalizer *Normalizer
}

// NewBakeriesService creates a new instance of BakeriesService.
func NewBakeriesService(repo repository.BakeriesRepository, normalizer *Normalizer) *BakeriesService {
	if normalizer == nil {
		normalizer = NewNormalizer(defaultPhoneRegion)
	}
	return &BakeriesService{repo: repo, normalizer: normalizer}
}

// ListBakeries returns bakeries matching the filter, newest first by default.
func (s *BakeriesService) ListBakeries(ctx context.Context, filter dto.ListFilter) ([]entity.Bakery, error) {
	filter.Q = strings.TrimSpace(filter.Q)
	filter.SemlorStatus = strings.TrimSpace(filter.SemlorStatus)
	if filter.SemlorStatus != "" && !entity.SemlorStatus(filter.SemlorStatus).Valid() {
		return nil, ValidationError{Message: "status must be one of confirmed, unknown, not_available"}
	}
	switch filter.Sort {
	case dto.SortNewest, dto.SortOldest, dto.SortName:
	default:
		filter.Sort = dto.SortNewest
	}
	return s.repo.List(ctx, filter)
}

// GetBakery loads one bakery by its string id.
func (s *BakeriesService) GetBakery(ctx context.Context, rawID string) (*entity.Bakery, error) {
	id, err := parseBakeryID(rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// CreateBakery validates and stores a new bakery.
func (s *BakeriesService) CreateBakery(ctx context.Context, req dto.CreateBakeryRequest) (*entity.Bakery, error) {
	bakery := &entity.Bakery{
		Name:         strings.TrimSpace(req.Name),
		Location:     strings.TrimSpace(req.Location),
		Description:  strings.TrimSpace(req.Description),
		SemlorStatus: entity.SemlorUnknown,
	}
	if bakery.Name == "" {
		return nil, ValidationError{Message: "name is required"}
	}
	if err := s.applyContact(bakery, &req.Website, &req.InstagramHandle, &req.Phone); err != nil {
		return nil, err
	}

	var status *string
	if req.SemlorStatus != "" {
		status = &req.SemlorStatus
	}
	if err := applySemlor(bakery, status, req.HasSemlor); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, bakery)
	if err != nil {
		return nil, eris.Wrap(err, "create bakery")
	}
	return created, nil
}

// UpdateBakery applies a partial update. Fields absent from the request keep
// their stored value.
func (s *BakeriesService) UpdateBakery(ctx context.Context, rawID string, req dto.UpdateBakeryRequest) (*entity.Bakery, error) {
	id, err := parseBakeryID(rawID)
	if err != nil {
		return nil, err
	}

	bakery, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ValidationError{Message: "name is required"}
		}
		bakery.Name = name
	}
	if req.Location != nil {
		bakery.Location = strings.TrimSpace(*req.Location)
	}
	if req.Description != nil {
		bakery.Description = strings.TrimSpace(*req.Description)
	}
	if err := s.applyContact(bakery, req.Website, req.InstagramHandle, req.Phone); err != nil {
		return nil, err
	}
	if err := applySemlor(bakery, req.SemlorStatus, req.HasSemlor); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, bakery)
}

// DeleteBakery removes a bakery.
func (s *BakeriesService) DeleteBakery(ctx context.Context, rawID string) error {
	id, err := parseBakeryID(rawID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *BakeriesService) applyContact(bakery *entity.Bakery, website, handle, phone *string) error {
	if website != nil {
		normalized, err := s.normalizer.Website(*website)
		if err != nil {
			return err
		}
		bakery.Website = normalized
	}
	if handle != nil {
		normalized, err := s.normalizer.InstagramHandle(*handle)
		if err != nil {
			return err
		}
		bakery.InstagramHandle = normalized
	}
	if phone != nil {
		normalized, err := s.normalizer.Phone(*phone)
		if err != nil {
			return err
		}
		bakery.Phone = normalized
	}
	return nil
}

// applySemlor keeps hasSemlor in step with semlorStatus. An explicit status
// wins; hasSemlor alone confirms, or reverts a confirmed bakery to unknown.
func applySemlor(bakery *entity.Bakery, status *string, hasSemlor *bool) error {
	switch {
	case status != nil:
		next := entity.SemlorStatus(strings.TrimSpace(*status))
		if !next.Valid() {
			return ValidationError{Message: "semlorStatus must be one of confirmed, unknown, not_available"}
		}
		bakery.SemlorStatus = next
	case hasSemlor != nil && *hasSemlor:
		bakery.SemlorStatus = entity.SemlorConfirmed
	case hasSemlor != nil && bakery.SemlorStatus == entity.SemlorConfirmed:
		bakery.SemlorStatus = entity.SemlorUnknown
	}
	if !bakery.SemlorStatus.Valid() {
		bakery.SemlorStatus = entity.SemlorUnknown
	}
	bakery.HasSemlor = bakery.SemlorStatus == entity.SemlorConfirmed
	return nil
}

func parseBakeryID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, ErrInvalidBakeryID
	}
	return id, nil
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var vErr ValidationError
	return errors.As(err, &vErr)
}
