package utils // package utils provides helpers for staff access tokens and password hashing

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for signing and parsing tokens
)

// RoleStaff is the only role allowed to call mutation endpoints.
const RoleStaff = "STAFF"

// ErrInvalidToken is returned for any token that fails signature, expiry
// or claim validation.  Callers should not distinguish further.
var ErrInvalidToken = errors.New("invalid access token")

// AccessClaims are the claims carried by a staff access token.  Subject
// holds the staff login name and Role the granted role.
type AccessClaims struct {
    Role string `json:"role"`
    jwt.RegisteredClaims
}

// AccessToken is a signed JWT together with its expiry.
type AccessToken struct {
    Token string
    Exp   time.Time
}

// NewAccessToken signs an HS256 JWT for subject with the given role that
// expires after ttl.
func NewAccessToken(secret, subject, role string, ttl time.Duration) (AccessToken, error) {
    if secret == "" {
        return AccessToken{}, errors.New("jwt secret is empty")
    }
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := AccessClaims{
        Role: role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   subject,
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw against secret and returns its claims.
// Only HMAC signing methods are accepted.
func ParseAccessToken(secret, raw string) (*AccessClaims, error) {
    claims := &AccessClaims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    }, jwt.WithExpirationRequired())
    if err != nil || !tok.Valid {
        return nil, ErrInvalidToken
    }
    return claims, nil
}
