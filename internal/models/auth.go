package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries the identity of the caller allowed to mutate payments.
type JWTClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
