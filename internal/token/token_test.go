package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestNew(t *testing.T) {
	_, err := New(nil, "complyhub", time.Hour)
	require.ErrorIs(t, err, ErrMissingSecret)

	_, err = New(testSecret, "complyhub", 0)
	require.ErrorIs(t, err, ErrInvalidTTL)
}

func TestIssueAndVerify(t *testing.T) {
	issuer, err := New(testSecret, "complyhub", time.Hour)
	require.NoError(t, err)

	raw, err := issuer.Issue("alice")
	require.NoError(t, err)

	claims, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "complyhub", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	_, err = issuer.Issue("  ")
	require.ErrorIs(t, err, ErrSubjectRequired)
}

func TestVerifyRejects(t *testing.T) {
	issuer, err := New(testSecret, "complyhub", time.Hour)
	require.NoError(t, err)

	sign := func(method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
		raw, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)

		return raw
	}

	now := time.Now()
	valid := jwt.RegisteredClaims{
		Issuer:    "complyhub",
		Subject:   "alice",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	expired := valid
	expired.IssuedAt = jwt.NewNumericDate(now.Add(-2 * time.Hour))
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))

	otherIssuer := valid
	otherIssuer.Issuer = "someone-else"

	noSubject := valid
	noSubject.Subject = ""

	noExpiry := valid
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "garbage", raw: "not.a.token"},
		{name: "wrong secret", raw: sign(jwt.SigningMethodHS256, []byte("another-secret"), valid)},
		{name: "wrong algorithm", raw: sign(jwt.SigningMethodHS512, testSecret, valid)},
		{name: "none algorithm", raw: sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid)},
		{name: "expired", raw: sign(jwt.SigningMethodHS256, testSecret, expired)},
		{name: "other issuer", raw: sign(jwt.SigningMethodHS256, testSecret, otherIssuer)},
		{name: "no subject", raw: sign(jwt.SigningMethodHS256, testSecret, noSubject)},
		{name: "no expiry", raw: sign(jwt.SigningMethodHS256, testSecret, noExpiry)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := issuer.Verify(tt.raw)
			require.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}

	// the valid fixture itself passes
	_, err = issuer.Verify(sign(jwt.SigningMethodHS256, testSecret, valid))
	require.NoError(t, err)
}
