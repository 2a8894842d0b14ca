package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = UserClaims{Email: "ann@example.com", UserUID: "5b1c7c2e-6d0f-4c55-9a8e-3f0a3f2b7d11", Role: "user"}

func newTestCodec(t *testing.T, now time.Time) *Codec {
	t.Helper()
	c, err := NewCodec([]byte("test-secret"))
	require.NoError(t, err)
	c.Now = func() time.Time { return now }
	return c
}

func TestNewCodec_EmptySecret(t *testing.T) {
	_, err := NewCodec(nil)
	require.Error(t, err)
}

func TestIssueAccess_RoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(t, now)

	for _, refresh := range []bool{false, true} {
		tok, issued, err := c.IssueAccess(testUser, time.Hour, refresh)
		require.NoError(t, err)

		claims, err := c.Decode(tok)
		require.NoError(t, err)
		assert.Equal(t, testUser, claims.User)
		assert.Equal(t, refresh, claims.Refresh)
		assert.Equal(t, issued.ID, claims.ID)
		assert.Equal(t, now.Add(time.Hour), claims.ExpiresAt.Time.UTC())
		assert.False(t, claims.Expired(now))
		assert.Equal(t, time.Hour, claims.Remaining(now))
	}
}

func TestIssueAccess_UniqueJTI(t *testing.T) {
	c := newTestCodec(t, time.Now())

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		_, claims, err := c.IssueAccess(testUser, time.Minute, false)
		require.NoError(t, err)
		require.NotEmpty(t, claims.ID)
		assert.False(t, seen[claims.ID], "duplicate jti %s", claims.ID)
		seen[claims.ID] = true
	}
}

func TestDecode_ExpiredTokenStillDecodes(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(t, now)

	tok, _, err := c.IssueAccess(testUser, time.Minute, false)
	require.NoError(t, err)

	c.Now = func() time.Time { return now.Add(2 * time.Hour) }
	claims, err := c.Decode(tok)
	require.NoError(t, err)
	assert.True(t, claims.Expired(c.Now()))
	assert.Zero(t, claims.Remaining(c.Now()))
}

func TestDecode_ZeroTTLIsAlreadyExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(t, now)

	tok, _, err := c.IssueAccess(testUser, 0, false)
	require.NoError(t, err)

	claims, err := c.Decode(tok)
	require.NoError(t, err)
	assert.True(t, claims.Expired(now))
}

func TestDecode_WrongSecret(t *testing.T) {
	c := newTestCodec(t, time.Now())
	other, err := NewCodec([]byte("another-secret"))
	require.NoError(t, err)

	tok, _, err := other.IssueAccess(testUser, time.Hour, false)
	require.NoError(t, err)

	_, err = c.Decode(tok)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestDecode_Malformed(t *testing.T) {
	c := newTestCodec(t, time.Now())

	for _, in := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30"} {
		_, err := c.Decode(in)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", in)
	}
}

func TestDecode_MissingRequiredClaims(t *testing.T) {
	c := newTestCodec(t, time.Now())

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"refresh": false}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = c.Decode(tok)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_RejectsNoneAlgorithm(t *testing.T) {
	c := newTestCodec(t, time.Now())

	claims := &AccessClaims{
		User: testUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        NewJTI(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = c.Decode(tok)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestLinkToken_RoundTrip(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(t, now)

	tok, err := c.IssueLinkToken(map[string]any{"email": "ann@example.com"})
	require.NoError(t, err)

	c.Now = func() time.Time { return now.Add(30 * time.Minute) }
	data, err := c.DecodeLinkToken(tok, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", data["email"])
}

func TestLinkToken_MaxAge(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(t, now)

	tok, err := c.IssueLinkToken(map[string]any{"email": "ann@example.com"})
	require.NoError(t, err)

	c.Now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = c.DecodeLinkToken(tok, time.Hour)
	assert.ErrorIs(t, err, ErrLinkExpired)
}

func TestLinkToken_IssuedInTheFuture(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(t, now.Add(time.Hour))

	tok, err := c.IssueLinkToken(map[string]any{"email": "ann@example.com"})
	require.NoError(t, err)

	c.Now = func() time.Time { return now }
	_, err = c.DecodeLinkToken(tok, 24*time.Hour)
	assert.ErrorIs(t, err, ErrLinkExpired)
}

func TestTokens_NotInterchangeable(t *testing.T) {
	c := newTestCodec(t, time.Now())

	link, err := c.IssueLinkToken(map[string]any{"email": "ann@example.com"})
	require.NoError(t, err)
	_, err = c.Decode(link)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	access, _, err := c.IssueAccess(testUser, time.Hour, false)
	require.NoError(t, err)
	_, err = c.DecodeLinkToken(access, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestFingerprint_Stable(t *testing.T) {
	assert.Equal(t, Fingerprint("abc"), Fingerprint("abc"))
	assert.NotEqual(t, Fingerprint("abc"), Fingerprint("abd"))
	assert.Len(t, Fingerprint("abc"), 64)
}
