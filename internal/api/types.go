package api

import (
	"time"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// === Wire types ===

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

func userToAPI(u domain.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
	}
}

type groupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func groupToAPI(g domain.Group) groupResponse {
	return groupResponse{ID: g.ID, Name: g.Name, Description: g.Description, CreatedAt: g.CreatedAt}
}

type resourceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
}

func resourceToAPI(r domain.Resource) resourceResponse {
	return resourceResponse{
		ID: r.ID, Name: r.Name, Description: r.Description,
		Capacity: r.Capacity, CreatedAt: r.CreatedAt,
	}
}

type permissionResponse struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	ResourceID string    `json:"resource_id"`
	UserID     string    `json:"user_id,omitempty"`
	GroupID    string    `json:"group_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func permissionToAPI(p domain.Permission) permissionResponse {
	out := permissionResponse{
		ID:         p.ID,
		Action:     string(p.Action),
		ResourceID: p.ResourceID,
		CreatedAt:  p.CreatedAt,
	}
	if id, ok := p.Target.UserID(); ok {
		out.UserID = id
	}
	if id, ok := p.Target.GroupID(); ok {
		out.GroupID = id
	}
	return out
}

type bookingResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ResourceID string    `json:"resource_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func bookingToAPI(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		ResourceID: b.ResourceID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

type conflictWindow struct {
	Status    string    `json:"status"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type availabilityResponse struct {
	Available         bool             `json:"available"`
	ResourceID        string           `json:"resource_id"`
	ResourceName      string           `json:"resource_name"`
	Capacity          int              `json:"capacity"`
	AvailableCapacity int              `json:"available_capacity"`
	ConflictCount     int              `json:"conflict_count"`
	Reason            string           `json:"reason,omitempty"`
	Conflicts         []conflictWindow `json:"conflicts,omitempty"`
}

func availabilityToAPI(a *domain.AvailabilityResult) availabilityResponse {
	out := availabilityResponse{
		Available:         a.Available,
		ResourceID:        a.ResourceID,
		ResourceName:      a.ResourceName,
		Capacity:          a.Capacity,
		AvailableCapacity: a.AvailableCapacity,
		ConflictCount:     a.ConflictCount,
		Reason:            a.Reason,
	}
	for _, c := range a.Conflicts {
		out.Conflicts = append(out.Conflicts, conflictWindow{
			Status:    string(c.Status),
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
		})
	}
	return out
}

// paginated wraps list responses with the opaque next-page token.
type paginated[T any] struct {
	Data          []T    `json:"data"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

func paginate[T any, D any](items []D, page domain.PageRequest, total int64, convert func(D) T) paginated[T] {
	out := paginated[T]{Data: make([]T, 0, len(items))}
	for _, item := range items {
		out.Data = append(out.Data, convert(item))
	}
	out.NextPageToken = domain.NextPageToken(page.Offset(), page.Limit(), total)
	return out
}
