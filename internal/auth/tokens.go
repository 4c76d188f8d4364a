package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mrlokans/bookshelf/internal/entities"
	apperrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/identity"
)

const (
	claimUserID = "user_id"
	claimRole   = "role"
)

var ErrInvalidToken = apperrors.Unauthorized("invalid or expired token")

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, expiry time.Duration) *TokenService {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Issue signs a token carrying the user's id and role.
func (s *TokenService) Issue(user *entities.User) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("token secret is not configured")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		claimUserID: user.ID,
		claimRole:   string(user.Role),
		"exp":       s.now().Add(s.expiry).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns the identity it carries.
func (s *TokenService) Parse(tokenString string) (identity.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return identity.Identity{}, ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity.Identity{}, ErrInvalidToken
	}

	userID, ok := claims[claimUserID].(float64)
	if !ok || userID < 1 {
		return identity.Identity{}, ErrInvalidToken
	}

	role, _ := claims[claimRole].(string)
	if !entities.Role(role).Valid() {
		return identity.Identity{}, ErrInvalidToken
	}

	return identity.New(uint(userID), entities.Role(role)), nil
}
