package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v *stubValidator) Validate(_ context.Context, _ string) (*JWTClaims, error) {
	return v.claims, v.err
}

// stubUserRepo serves GetByID from a map; everything else is unused by the
// middleware.
type stubUserRepo struct {
	domain.UserRepository
	users map[string]*domain.User
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound("user %s not found", id)
	}
	return u, nil
}

func echoUserHandler(t *testing.T, captured *domain.ContextUser) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := domain.UserFromContext(r.Context())
		require.True(t, ok)
		*captured = u
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ValidToken(t *testing.T) {
	users := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Email: "alice@example.com", Username: "alice", IsActive: true, IsSuperuser: true},
	}}
	validator := &stubValidator{claims: &JWTClaims{Subject: "u1"}}

	var captured domain.ContextUser
	handler := Auth(validator, users)(echoUserHandler(t, &captured))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", captured.ID)
	assert.Equal(t, "alice", captured.Username)
	assert.True(t, captured.IsSuperuser)
}

func TestAuth_Rejections(t *testing.T) {
	users := &stubUserRepo{users: map[string]*domain.User{
		"u1":       {ID: "u1", Username: "alice", IsActive: true},
		"disabled": {ID: "disabled", Username: "mallory", IsActive: false},
	}}

	tests := []struct {
		name      string
		header    string
		validator JWTValidator
	}{
		{
			name:      "missing header",
			header:    "",
			validator: &stubValidator{claims: &JWTClaims{Subject: "u1"}},
		},
		{
			name:      "not a bearer token",
			header:    "Basic dXNlcjpwYXNz",
			validator: &stubValidator{claims: &JWTClaims{Subject: "u1"}},
		},
		{
			name:      "validator rejects token",
			header:    "Bearer bad",
			validator: &stubValidator{err: assert.AnError},
		},
		{
			name:      "token without subject",
			header:    "Bearer some-token",
			validator: &stubValidator{claims: &JWTClaims{}},
		},
		{
			name:      "unknown user",
			header:    "Bearer some-token",
			validator: &stubValidator{claims: &JWTClaims{Subject: "ghost"}},
		},
		{
			name:      "disabled user",
			header:    "Bearer some-token",
			validator: &stubValidator{claims: &JWTClaims{Subject: "disabled"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Auth(tt.validator, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not be reached")
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "unauthorized")
		})
	}
}
