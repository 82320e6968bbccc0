package middleware

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"holidaytracker/internal/auth"
	apperrors "holidaytracker/internal/errors"
)

// IdentityContextKey is the echo context key holding the caller's auth.Identity.
const IdentityContextKey = "identity"

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved identity on both the echo context and the request context.
func RequireAuth(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization,
		ContextKey:  IdentityContextKey,
		ParseTokenFunc: func(c echo.Context, header string) (interface{}, error) {
			raw, ok := jwtService.Extract(header)
			if !ok {
				return nil, apperrors.ErrMissingToken
			}
			claims, ok := jwtService.Verify(raw)
			if !ok {
				return nil, apperrors.ErrInvalidToken
			}
			id := auth.Identity{UserID: claims.UserID, Email: claims.Email}
			c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), id)))
			return id, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if _, ok := jwtService.Extract(c.Request().Header.Get(echo.HeaderAuthorization)); !ok {
				return apperrors.ErrMissingToken
			}
			return apperrors.ErrInvalidToken
		},
	})
}

// CurrentIdentity returns the identity resolved by RequireAuth.
func CurrentIdentity(c echo.Context) (auth.Identity, bool) {
	if id, ok := c.Get(IdentityContextKey).(auth.Identity); ok && id.UserID != 0 {
		return id, true
	}
	return auth.IdentityFrom(c.Request().Context())
}
