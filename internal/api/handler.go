package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
	"github.com/ViktorMash/resource-booking-system/internal/middleware"
	"github.com/ViktorMash/resource-booking-system/internal/service/booking"
	"github.com/ViktorMash/resource-booking-system/internal/service/catalog"
	"github.com/ViktorMash/resource-booking-system/internal/service/security"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	users       *security.UserService
	groups      *security.GroupService
	permissions *security.PermissionService
	resources   *catalog.ResourceService
	bookings    *booking.Service
	tokens      *security.TokenService
	logger      *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(
	users *security.UserService,
	groups *security.GroupService,
	permissions *security.PermissionService,
	resources *catalog.ResourceService,
	bookings *booking.Service,
	tokens *security.TokenService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		users:       users,
		groups:      groups,
		permissions: permissions,
		resources:   resources,
		bookings:    bookings,
		tokens:      tokens,
		logger:      logger,
	}
}

// RouterConfig carries the cross-cutting pieces the router needs.
type RouterConfig struct {
	Validator      middleware.JWTValidator
	UserRepo       domain.UserRepository
	AllowedOrigins []string
	RateLimit      middleware.RateLimitConfig
}

// NewRouter assembles the chi router: request IDs, recovery, CORS, and rate
// limiting on everything; JWT auth on everything except login, initial user
// creation, and health.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RateLimit.RequestsPerSecond > 0 {
		r.Use(middleware.RateLimiter(cfg.RateLimit))
	}

	r.Get("/healthz", h.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.login)
		// Unauthenticated on purpose: the very first call bootstraps the
		// initial superuser; afterwards the service requires a superuser
		// caller and this route returns 403 without a token.
		r.Post("/auth/setup", h.setup)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Validator, cfg.UserRepo))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.listUsers)
				r.Post("/", h.createUser)
				r.Get("/me", h.currentUser)
				r.Get("/{userID}", h.getUser)
			})

			r.Route("/groups", func(r chi.Router) {
				r.Get("/", h.listGroups)
				r.Post("/", h.createGroup)
				r.Get("/{groupID}", h.getGroup)
				r.Delete("/{groupID}", h.deleteGroup)
				r.Get("/{groupID}/members", h.listGroupMembers)
				r.Post("/{groupID}/members/{userID}", h.addGroupMember)
				r.Delete("/{groupID}/members/{userID}", h.removeGroupMember)
			})

			r.Route("/resources", func(r chi.Router) {
				r.Get("/", h.listResources)
				r.Post("/", h.createResource)
				r.Get("/{resourceID}", h.getResource)
				r.Get("/{resourceID}/availability", h.checkAvailability)
			})

			r.Route("/permissions", func(r chi.Router) {
				r.Get("/", h.listPermissions)
				r.Post("/", h.createPermission)
				r.Get("/{permissionID}", h.getPermission)
				r.Put("/{permissionID}", h.updatePermission)
				r.Delete("/{permissionID}", h.deletePermission)
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", h.listBookings)
				r.Post("/", h.createBooking)
				r.Get("/{bookingID}", h.getBooking)
				r.Put("/{bookingID}", h.updateBooking)
				r.Post("/{bookingID}/status", h.changeBookingStatus)
				r.Delete("/{bookingID}", h.cancelBooking)
			})
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pageFromRequest reads max_results and page_token query parameters.
func pageFromRequest(r *http.Request) domain.PageRequest {
	page := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page.MaxResults = n
		}
	}
	return page
}
