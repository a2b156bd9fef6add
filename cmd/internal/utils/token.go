package utils

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const tokenDataKey = "token_data"

var ErrNoTokenData = errors.New("no token data in context")

type TokenData struct {
	Sub      string
	Username string
	IsAdmin  bool
}

type sessionClaims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"admin"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs an HS256 session token for the given identity-provider subject.
func (t *TokenIssuer) Issue(data TokenData) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(t.ttl)
	claims := sessionClaims{
		Username: data.Username,
		IsAdmin:  data.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   data.Sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func (t *TokenIssuer) Parse(raw string) (*TokenData, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}
	return &TokenData{Sub: claims.Subject, Username: claims.Username, IsAdmin: claims.IsAdmin}, nil
}

// RequireAuth rejects requests without a valid "Authorization: Bearer" token
// and stores the parsed claims for ParseTokenDataCtx.
func (t *TokenIssuer) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or missing authentication token"})
			}

			data, err := t.Parse(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid or missing authentication token"})
			}
			c.Set(tokenDataKey, data)
			return next(c)
		}
	}
}

func ParseTokenDataCtx(c echo.Context) (*TokenData, error) {
	data, ok := c.Get(tokenDataKey).(*TokenData)
	if !ok || data == nil {
		return nil, ErrNoTokenData
	}
	return data, nil
}

// SetTokenDataCtx is used by handlers mounted behind other auth schemes and by tests.
func SetTokenDataCtx(c echo.Context, data *TokenData) {
	c.Set(tokenDataKey, data)
}
