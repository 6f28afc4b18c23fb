package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testSecret, "devflow")
	require.NoError(t, err)

	token, err := svc.Generate("auth0|user-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "auth0|user-42", subject)
}

func TestNewTokenServiceRejectsShortSecret(t *testing.T) {
	_, err := NewTokenService("short", "devflow")
	require.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := &TokenService{secret: []byte(testSecret), issuer: "devflow", ttl: -time.Minute}

	token, err := svc.Generate("auth0|user-42")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	issued, err := NewTokenService(testSecret, "someone-else")
	require.NoError(t, err)
	svc, err := NewTokenService(testSecret, "devflow")
	require.NoError(t, err)

	token, err := issued.Generate("auth0|user-42")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issued, err := NewTokenService("another-secret-another-secret", "devflow")
	require.NoError(t, err)
	svc, err := NewTokenService(testSecret, "devflow")
	require.NoError(t, err)

	token, err := issued.Generate("auth0|user-42")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsUnsignedAlgorithm(t *testing.T) {
	svc, err := NewTokenService(testSecret, "devflow")
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: "auth0|user-42",
		Issuer:  "devflow",
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc, err := NewTokenService(testSecret, "devflow")
	require.NoError(t, err)

	_, err = svc.Validate("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
