// Package catalog manages the inventory of bookable resources.
package catalog

import (
	"context"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// ResourceService provides resource management. Creation is superuser only;
// reads are open to any authenticated user (listing a resource is not the
// same as viewing its bookings, which needs the view action).
type ResourceService struct {
	resources domain.ResourceRepository
}

// NewResourceService creates a new ResourceService.
func NewResourceService(resources domain.ResourceRepository) *ResourceService {
	return &ResourceService{resources: resources}
}

// Create validates and persists a new resource.
func (s *ResourceService) Create(ctx context.Context, req *domain.CreateResourceRequest) (*domain.Resource, error) {
	u, ok := domain.UserFromContext(ctx)
	if !ok {
		return nil, domain.ErrAccessDenied("authentication required")
	}
	if !u.IsSuperuser {
		return nil, domain.ErrAccessDenied("superuser privileges required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.resources.Create(ctx, &domain.Resource{
		ID:          domain.NewID(),
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
	})
}

// GetByID returns a resource by ID.
func (s *ResourceService) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	return s.resources.GetByID(ctx, id)
}

// GetByName returns a resource by its case-insensitive unique name.
func (s *ResourceService) GetByName(ctx context.Context, name string) (*domain.Resource, error) {
	return s.resources.GetByName(ctx, name)
}

// List returns a paginated list of resources.
func (s *ResourceService) List(ctx context.Context, page domain.PageRequest) ([]domain.Resource, int64, error) {
	return s.resources.List(ctx, page)
}
