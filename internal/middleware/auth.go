package middleware

import (
	"net/http"
	"strings"
	"time"

	"pkl-club-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const claimsContextKey = "user"

// Claims is the bearer-token payload: who the caller is and their role.
type Claims struct {
	Username string         `json:"username"`
	UserType model.UserType `json:"userType"`
	jwt.RegisteredClaims
}

// NewToken signs an HS256 token for the user.
func NewToken(secret string, ttl time.Duration, user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: user.Username,
		UserType: user.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Auth rejects requests without a valid bearer token and stores the
// parsed claims on the request context.
func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(
				strings.TrimPrefix(header, "Bearer "),
				claims,
				func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, jwt.ErrSignatureInvalid
					}
					return []byte(secret), nil
				},
			)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// CurrentUser returns the claims stored by Auth; nil on public routes.
func CurrentUser(c echo.Context) *Claims {
	claims, _ := c.Get(claimsContextKey).(*Claims)
	return claims
}

// RequireAdmin is a guard for admin-only handlers.
func RequireAdmin(c echo.Context) (*Claims, error) {
	claims := CurrentUser(c)
	if claims == nil || claims.UserType != model.UserTypeAdmin {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Admin access required")
	}
	return claims, nil
}
