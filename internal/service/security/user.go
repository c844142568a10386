package security

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// UserService provides user management and credential verification.
type UserService struct {
	users domain.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create validates and persists a new user. Only superusers may create
// users, except when the store is empty: the very first user is created
// unauthenticated and becomes the superuser (initial setup).
func (s *UserService) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	bootstrap := total == 0
	if !bootstrap {
		if err := requireSuperuser(ctx); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, &domain.User{
		ID:             domain.NewID(),
		Email:          req.Email,
		Username:       req.Username,
		HashedPassword: string(hash),
		IsActive:       true,
		IsSuperuser:    bootstrap || req.IsSuperuser,
	})
}

// GetByID returns a user by ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns a paginated list of users. Superuser only.
func (s *UserService) List(ctx context.Context, page domain.PageRequest) ([]domain.User, int64, error) {
	if err := requireSuperuser(ctx); err != nil {
		return nil, 0, err
	}
	return s.users.List(ctx, page)
}

// Authenticate verifies a username (or email) and password pair and returns
// the matching user. Inactive users cannot authenticate. The error is
// deliberately identical for unknown user and wrong password.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	invalid := domain.ErrAccessDenied("invalid credentials")

	u, err := s.users.GetByUsername(ctx, login)
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		u, err = s.users.GetByEmail(ctx, login)
	}
	if err != nil {
		if errors.As(err, &notFound) {
			// Burn a comparison so timing does not reveal user existence.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000uGZwCZDmtkBC3mbKF7vuvmcNvr4wMdG"), []byte(password))
			return nil, invalid
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)); err != nil {
		return nil, invalid
	}
	if !u.IsActive {
		return nil, domain.ErrAccessDenied("user account is disabled")
	}
	return u, nil
}
