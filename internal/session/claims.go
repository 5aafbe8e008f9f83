package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/allegrolike/storefront/internal/models"
)

var errTokenExpired = errors.New("token expired")

// decodeToken extracts the display identity from a bearer token without
// verifying the signature. The token is not a security boundary here: the
// backend re-validates it on every authenticated call, the decoded claims
// only seed the local session state.
func decodeToken(raw string) (*models.User, time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, time.Time{}, errors.New("unexpected claims type")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, time.Time{}, errors.New("token missing subject")
	}

	role, err := firstRole(claims)
	if err != nil {
		return nil, time.Time{}, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, time.Time{}, errors.New("token missing expiry")
	}
	if time.Now().After(exp.Time) {
		return nil, time.Time{}, errTokenExpired
	}

	return &models.User{Username: sub, Role: role}, exp.Time, nil
}

// firstRole handles both claim shapes the backend has emitted over time:
// "role" as an array of strings and "role" as a single string.
func firstRole(claims jwt.MapClaims) (string, error) {
	switch v := claims["role"].(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok && s != "" {
				return s, nil
			}
		}
	}
	return "", errors.New("token missing role")
}
