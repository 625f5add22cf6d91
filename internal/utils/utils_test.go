package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"
)

func TestAccessToken_RoundTrip(t *testing.T) {
    tok, err := NewAccessToken("s3cret", "mike", RoleStaff, time.Hour)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

    claims, err := ParseAccessToken("s3cret", tok.Token)
    require.NoError(t, err)
    assert.Equal(t, "mike", claims.Subject)
    assert.Equal(t, RoleStaff, claims.Role)
}

func TestAccessToken_Rejects(t *testing.T) {
    tok, err := NewAccessToken("s3cret", "mike", RoleStaff, time.Hour)
    require.NoError(t, err)

    _, err = ParseAccessToken("other", tok.Token)
    assert.ErrorIs(t, err, ErrInvalidToken)

    expired, err := NewAccessToken("s3cret", "mike", RoleStaff, -time.Minute)
    require.NoError(t, err)
    _, err = ParseAccessToken("s3cret", expired.Token)
    assert.ErrorIs(t, err, ErrInvalidToken)

    // no exp claim
    raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "mike", "role": RoleStaff}).SignedString([]byte("s3cret"))
    require.NoError(t, err)
    _, err = ParseAccessToken("s3cret", raw)
    assert.ErrorIs(t, err, ErrInvalidToken)

    _, err = ParseAccessToken("s3cret", "not-a-jwt")
    assert.ErrorIs(t, err, ErrInvalidToken)

    _, err = NewAccessToken("", "mike", RoleStaff, time.Hour)
    assert.Error(t, err)
}

func TestPassword(t *testing.T) {
    hash, err := HashPassword("hunter2", bcrypt.MinCost)
    require.NoError(t, err)
    assert.True(t, VerifyPassword(hash, "hunter2"))
    assert.False(t, VerifyPassword(hash, "hunter3"))
    assert.False(t, VerifyPassword("", "hunter2"))
}
