package http

import (
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/services"
	"github.com/mrlokans/bookshelf/internal/validation"
)

type registerRequest struct {
	FirstName string     `json:"first_name" validate:"required,alpha,min=2,max=50"`
	LastName  string     `json:"last_name" validate:"omitempty,max=50"`
	Username  string     `json:"username" validate:"required,alphanum,min=4,max=16"`
	Email     string     `json:"email" validate:"required,email,max=50"`
	Password  string     `json:"password" validate:"required,min=8,max=72"`
	Sex       string     `json:"sex" validate:"omitempty,oneof=male female others"`
	DOB       *time.Time `json:"dob"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AccountController serves registration, login and the caller's profile.
type AccountController struct {
	accounts  AccountService
	throttle  LoginThrottle
	validator *validation.Validator
}

func NewAccountController(accounts AccountService, throttle LoginThrottle, v *validation.Validator) *AccountController {
	return &AccountController{accounts: accounts, throttle: throttle, validator: v}
}

// Register creates an account with its default shelves.
// POST /api/auth/register
func (ac *AccountController) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, ac.validator, &req) {
		return
	}

	user, err := ac.accounts.Register(c.Request.Context(), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Sex:       req.Sex,
		DOB:       req.DOB,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, user)
}

// Login exchanges credentials for a bearer token.
// POST /api/auth/login
func (ac *AccountController) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, ac.validator, &req) {
		return
	}

	ip := c.ClientIP()
	if ac.throttle != nil {
		if err := ac.throttle.Check(ip, req.Email); err != nil {
			respondError(c, err)
			return
		}
	}

	result, err := ac.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if ac.throttle != nil && apperrors.Is(err, apperrors.ErrUnauthorized) {
			ac.throttle.RecordFailure(ip, req.Email)
		}
		respondError(c, err)
		return
	}

	if ac.throttle != nil {
		ac.throttle.RecordSuccess(ip, req.Email)
	}
	respondOK(c, result)
}

// Profile returns the authenticated user.
// GET /api/profile
func (ac *AccountController) Profile(c *gin.Context) {
	user, err := ac.accounts.Profile(c.Request.Context(), caller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}
