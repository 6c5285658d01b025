/*
Package token mints and parses the session tokens issued by the local user
store after a successful login or signup.

Tokens are HS256-signed JWTs carrying only the user id and issuance time.
Signing makes the token tamper-evident across restarts of the client, but the
secret is a development default unless configured, so the token must not be
treated as a production credential.
*/
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// SessionExpiration defines the lifetime of a session token.
	SessionExpiration = 24 * time.Hour

	// TokenIssuer identifies the issuer of the token.
	TokenIssuer = "EventBook-Client"
)

// Mint creates and signs a new session token for the given user id.
func Mint(userID string, secretKey string) (string, error) {
	now := time.Now()

	payload := &Payload{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(SessionExpiration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    TokenIssuer,
		},
		UserID: userID,
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	return tok.SignedString([]byte(secretKey))
}

// Parse parses and validates a session token string using the provided secretKey.
func Parse(tokenString string, secretKey string) (*Payload, error) {
	claims := &Payload{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !tok.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}
