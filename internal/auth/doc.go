// Package auth authenticates API callers.
//
// Passwords are hashed with bcrypt (Hasher). A successful login yields an
// HS256 JWT (TokenService) carrying the user id and role; tokens are not
// stored server side and stay valid until they expire.
//
// # Configuration
//
//	AUTH_JWT_SECRET=<random string>   # required to serve
//	AUTH_TOKEN_EXPIRY=24h
//	AUTH_BCRYPT_COST=12
//	AUTH_LOGIN_MAX_ATTEMPTS=5          # failures per IP and email before lockout
//	AUTH_LOGIN_WINDOW=15m
//	AUTH_LOGIN_LOCKOUT=30m
//
// # Usage
//
//	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
//	router.Use(auth.NewMiddleware(tokens).Handler())
//	api.GET("/profile", auth.RequireUser(), handler)
//
// Handlers read the caller with auth.IdentityFrom(c) and pass it to services.
package auth
