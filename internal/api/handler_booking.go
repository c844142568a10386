package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// === Resources ===

type createResourceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Capacity    int    `json:"capacity"`
}

func (h *Handler) listResources(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	resources, total, err := h.resources.List(r.Context(), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, paginate(resources, page, total, resourceToAPI))
}

func (h *Handler) createResource(w http.ResponseWriter, r *http.Request) {
	var req createResourceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	res, err := h.resources.Create(r.Context(), &domain.CreateResourceRequest{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, resourceToAPI(*res))
}

func (h *Handler) getResource(w http.ResponseWriter, r *http.Request) {
	res, err := h.resources.GetByID(r.Context(), chi.URLParam(r, "resourceID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resourceToAPI(*res))
}

// checkAvailability answers ?start_time=...&end_time=... (RFC 3339) for a
// resource, optionally excluding a booking via ?exclude_booking_id=.
func (h *Handler) checkAvailability(w http.ResponseWriter, r *http.Request) {
	start, err := parseTimeParam(r, "start_time")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	end, err := parseTimeParam(r, "end_time")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.bookings.CheckAvailability(r.Context(), &domain.AvailabilityRequest{
		ResourceID:       chi.URLParam(r, "resourceID"),
		StartTime:        start,
		EndTime:          end,
		ExcludeBookingID: r.URL.Query().Get("exclude_booking_id"),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityToAPI(result))
}

func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, domain.ErrValidation("%s is required", name)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, domain.ErrValidation("%s must be RFC 3339, got %q", name, raw)
	}
	return t, nil
}

// === Bookings ===

type bookingRequest struct {
	ResourceID string    `json:"resource_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

func (h *Handler) listBookings(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	filter := domain.BookingFilter{
		UserID:     r.URL.Query().Get("user_id"),
		ResourceID: r.URL.Query().Get("resource_id"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseBookingStatus(raw)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		filter.Statuses = []domain.BookingStatus{status}
	}

	bookings, total, err := h.bookings.List(r.Context(), filter, page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, paginate(bookings, page, total, bookingToAPI))
}

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	b, err := h.bookings.Create(r.Context(), &domain.CreateBookingRequest{
		ResourceID: req.ResourceID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookingToAPI(*b))
}

func (h *Handler) getBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.Get(r.Context(), chi.URLParam(r, "bookingID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingToAPI(*b))
}

func (h *Handler) updateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	b, err := h.bookings.Update(r.Context(), chi.URLParam(r, "bookingID"), &domain.UpdateBookingRequest{
		ResourceID: req.ResourceID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingToAPI(*b))
}

type statusChangeRequest struct {
	Status string `json:"status"`
}

func (h *Handler) changeBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req statusChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	status, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	b, err := h.bookings.ChangeStatus(r.Context(), chi.URLParam(r, "bookingID"), status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingToAPI(*b))
}

// cancelBooking is DELETE on a booking: a cancellation, never a row delete.
func (h *Handler) cancelBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.Cancel(r.Context(), chi.URLParam(r, "bookingID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingToAPI(*b))
}
