package jwt_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavoamc/sitem-backend/internal/pkg/auth/jwt"
)

const testSecret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	subjectID := "6f1c8a3e-0000-4000-8000-000000000001"

	token, err := jwt.GenerateToken(subjectID, "admin", testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	payload, err := jwt.ParseToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, subjectID, payload.ID)
	assert.Equal(t, "admin", payload.Role)
	assert.Equal(t, jwt.TokenIssuer, payload.Issuer)

	wantExpiry := time.Now().Add(jwt.SessionExpiration).Unix()
	assert.InDelta(t, wantExpiry, payload.ExpiresAt, 5)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := jwt.GenerateToken("some-id", "user", testSecret)
	require.NoError(t, err)

	_, err = jwt.ParseToken(token, "a-different-secret")
	assert.Error(t, err)
}

func TestParseTokenMalformed(t *testing.T) {
	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		_, err := jwt.ParseToken(token, testSecret)
		assert.Error(t, err, "token %q should not parse", token)
	}
}

func TestParseTokenExpired(t *testing.T) {
	payload := &jwt.Payload{
		StandardClaims: jwtlib.StandardClaims{
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
			IssuedAt:  time.Now().Add(-2 * time.Hour).Unix(),
			Issuer:    jwt.TokenIssuer,
		},
		ID:   "some-id",
		Role: "user",
	}

	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, payload).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = jwt.ParseToken(token, testSecret)
	assert.Error(t, err)
}

func TestParseTokenRejectsUnexpectedSigningMethod(t *testing.T) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.StandardClaims{
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwt.ParseToken(signed, testSecret)
	assert.Error(t, err)
}
