package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

var (
	ErrTokenMissing = errors.New("access token is required")
	ErrTokenExpired = errors.New("access token expired")
	ErrNoSubject    = errors.New("access token has no subject")
)

// InspectAccessToken reads a backend-issued access token. With a configured secret the
// signature and issuer are verified; otherwise only structure, expiry and subject are
// checked and the backend remains the authority on validity.
func InspectAccessToken(cfg config.JWTConfig, tokenString string, now time.Time) (*AccessTokenClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		tokenString = strings.TrimSpace(tokenString[7:])
	}
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	claims := &AccessTokenClaims{}
	if cfg.Verifies() {
		opts := []jwt.ParserOption{
			jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
			jwt.WithTimeFunc(func() time.Time { return now }),
		}
		if cfg.Issuer != "" {
			opts = append(opts, jwt.WithIssuer(cfg.Issuer))
		}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		}, opts...)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return nil, ErrTokenExpired
			}
			return nil, err
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, err
		}
		if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
			return nil, ErrTokenExpired
		}
	}

	if claims.UserID() == "" {
		return nil, ErrNoSubject
	}
	return claims, nil
}
