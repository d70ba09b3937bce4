package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/outreach-forge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTService() *JWTService {
	return NewJWTService(&config.JWTConfig{Secret: testSecret, ExpirationHours: 24})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := testJWTService()
	id := uuid.New()

	token, expiresAt, err := svc.GenerateToken(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.GetSessionID())
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := testJWTService()
	token, _, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)

	other := NewJWTService(&config.JWTConfig{Secret: "ffffffffffffffffffffffffffffffff", ExpirationHours: 24})
	_, err = other.ValidateToken(token)
	assert.ErrorContains(t, err, "signature")

	_, err = svc.ValidateToken("")
	assert.Error(t, err)

	_, err = svc.ValidateToken("a.b")
	assert.ErrorContains(t, err, "malformed")
}

func TestJWTService_Expired(t *testing.T) {
	svc := testJWTService()
	token, _, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.ErrorContains(t, err, "expired")
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		SessionID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = testJWTService().ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RequiresSession(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: tokenIssuer}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = testJWTService().ValidateToken(token)
	assert.ErrorContains(t, err, "no session")
}
