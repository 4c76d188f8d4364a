package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
	apperrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/identity"
	"github.com/mrlokans/bookshelf/internal/services"
)

const validRegistration = `{
	"first_name": "Ada",
	"last_name": "Lovelace",
	"username": "ada1815",
	"email": "ada@example.com",
	"password": "analytical",
	"sex": "female",
	"dob": "1815-12-10T00:00:00Z"
}`

func TestAccountController_Register(t *testing.T) {
	t.Run("creates the account", func(t *testing.T) {
		s := newTestServer(t)
		s.accounts.register = func(in services.RegisterInput) (*entities.User, error) {
			return &entities.User{ID: 1, Username: in.Username, Email: in.Email, Role: entities.RoleUser}, nil
		}

		w := s.do(http.MethodPost, "/api/auth/register", "", validRegistration)

		require.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, s.accounts.registered)
		assert.Equal(t, "ada1815", s.accounts.registered.Username)
		assert.Equal(t, "analytical", s.accounts.registered.Password)
		require.NotNil(t, s.accounts.registered.DOB)
		assert.Equal(t, 1815, s.accounts.registered.DOB.Year())
		assert.NotContains(t, w.Body.String(), "analytical", "password must never be echoed")
	})

	t.Run("field rules", func(t *testing.T) {
		s := newTestServer(t)

		w := s.do(http.MethodPost, "/api/auth/register", "",
			`{"first_name":"A","username":"ad","email":"nope","password":"short","sex":"unknown"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		details := errorDetails(t, w)
		assert.Equal(t, "must be at least 2 characters", details["first_name"])
		assert.Equal(t, "must be at least 4 characters", details["username"])
		assert.Equal(t, "must be a valid email address", details["email"])
		assert.Equal(t, "must be at least 8 characters", details["password"])
		assert.Equal(t, "must be one of: male female others", details["sex"])
		assert.Nil(t, s.accounts.registered, "service must not be reached")
	})

	t.Run("taken email", func(t *testing.T) {
		s := newTestServer(t)
		s.accounts.register = func(services.RegisterInput) (*entities.User, error) {
			return nil, apperrors.Validation("email is already registered")
		}

		w := s.do(http.MethodPost, "/api/auth/register", "", validRegistration)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "email is already registered", decodeError(t, w).Message)
	})
}

func TestAccountController_Login(t *testing.T) {
	t.Run("returns user and token", func(t *testing.T) {
		s := newTestServer(t)
		s.accounts.login = func(email, _ string) (*services.LoginResult, error) {
			return &services.LoginResult{User: &entities.User{ID: 1, Email: email}, Token: "signed"}, nil
		}

		w := s.do(http.MethodPost, "/api/auth/login", "", `{"email":"ada@example.com","password":"analytical"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data services.LoginResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "signed", resp.Data.Token)
		assert.Equal(t, "ada@example.com", resp.Data.User.Email)
	})

	t.Run("missing password", func(t *testing.T) {
		s := newTestServer(t)

		w := s.do(http.MethodPost, "/api/auth/login", "", `{"email":"ada@example.com"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "is required", errorDetails(t, w)["password"])
	})

	t.Run("repeated failures are throttled", func(t *testing.T) {
		s := newTestServer(t)
		calls := 0
		s.accounts.login = func(string, string) (*services.LoginResult, error) {
			calls++
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		body := `{"email":"ada@example.com","password":"guess"}`

		for i := 0; i < 2; i++ {
			w := s.do(http.MethodPost, "/api/auth/login", "", body)
			require.Equal(t, http.StatusUnauthorized, w.Code)
		}

		w := s.do(http.MethodPost, "/api/auth/login", "", body)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, apperrors.CodeRateLimited, decodeError(t, w).Code)
		assert.Equal(t, 2, calls, "locked out attempts never reach the service")

		w = s.do(http.MethodPost, "/api/auth/login", "", `{"email":"grace@example.com","password":"guess"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "other accounts are unaffected")
	})

	t.Run("success clears earlier failures", func(t *testing.T) {
		s := newTestServer(t)
		fail := true
		s.accounts.login = func(string, string) (*services.LoginResult, error) {
			if fail {
				return nil, apperrors.Unauthorized("invalid email or password")
			}
			return &services.LoginResult{User: &entities.User{ID: 1}, Token: "signed"}, nil
		}
		body := `{"email":"ada@example.com","password":"analytical"}`

		require.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/auth/login", "", body).Code)
		fail = false
		require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/auth/login", "", body).Code)
		fail = true
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/auth/login", "", body).Code)
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/auth/login", "", body).Code)
	})
}

func TestAccountController_Profile(t *testing.T) {
	s := newTestServer(t)
	s.accounts.profile = func(caller identity.Identity) (*entities.User, error) {
		return &entities.User{ID: caller.UserID, Username: "ada1815"}, nil
	}

	w := s.do(http.MethodGet, "/api/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/profile", s.token(t, 12, entities.RoleUser), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":12`)
}
