package token

import "github.com/golang-jwt/jwt"

// Payload defines the claims carried by an EventBook session token.
// The token identifies the user and records when it was issued; it carries no
// email or password material. It is a development-mode credential: the remote
// collection store never verifies it, and the signing secret ships with a
// default value.
type Payload struct {
	// StandardClaims embeds the JWT standard fields (Exp, Iat, Iss) used for
	// validity checks when the token is restored from on-device storage.
	jwt.StandardClaims `json:"standard_claims"`

	// UserID is the identifier of the authenticated user.
	UserID string `json:"uid"`
}
