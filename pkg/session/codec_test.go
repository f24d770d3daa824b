package session

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func testSession() *Session {
	return &Session{
		Token:     "tok-1",
		ExpiresAt: testNow.Add(time.Hour).UnixMilli(),
		User:      json.RawMessage(`{"id":"1","login":"jane"}`),
	}
}

func TestPlainCodec_RoundTrip(t *testing.T) {
	value, err := PlainCodec{}.Encode(testSession())
	require.NoError(t, err)
	require.NotContains(t, value, `"`)
	require.NotContains(t, value, `,`)

	got, err := PlainCodec{}.Decode(value)
	require.NoError(t, err)
	require.Equal(t, "tok-1", got.Token)
	require.JSONEq(t, `{"id":"1","login":"jane"}`, string(got.User))
}

func TestPlainCodec_AcceptsRawJSON(t *testing.T) {
	got, err := PlainCodec{}.Decode(`{"token":"x","expiresAt":5,"user":{"pct":"100%"}}`)
	require.NoError(t, err)
	require.Equal(t, int64(5), got.ExpiresAt)
}

func TestSignedCodec_RoundTrip(t *testing.T) {
	c := NewSignedCodec("s3cret")

	value, err := c.Encode(testSession())
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(value, "."))

	got, err := c.Decode(value)
	require.NoError(t, err)
	require.Equal(t, testSession().ExpiresAt, got.ExpiresAt)
	require.Equal(t, "tok-1", got.Token)
}

func TestSignedCodec_RejectsForeignKey(t *testing.T) {
	value, err := NewSignedCodec("other").Encode(testSession())
	require.NoError(t, err)

	_, err = NewSignedCodec("s3cret").Decode(value)
	require.ErrorIs(t, err, ErrSignature)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestSignedCodec_RejectsTamperedPayload(t *testing.T) {
	c := NewSignedCodec("s3cret")
	value, err := c.Encode(testSession())
	require.NoError(t, err)

	forged, err := NewSignedCodec("s3cret").Encode(&Session{Token: "tok-1", ExpiresAt: testSession().ExpiresAt * 2, User: json.RawMessage(`{}`)})
	require.NoError(t, err)

	parts := strings.Split(value, ".")
	forgedParts := strings.Split(forged, ".")
	_, err = c.Decode(parts[0] + "." + forgedParts[1] + "." + parts[2])
	require.ErrorIs(t, err, ErrSignature)
}

func TestSignedCodec_RejectsPlaintextAndNone(t *testing.T) {
	c := NewSignedCodec("s3cret")

	plain, err := PlainCodec{}.Encode(testSession())
	require.NoError(t, err)
	_, err = c.Decode(plain)
	require.ErrorIs(t, err, ErrInvalid)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"token": "x", "expiresAt": 1, "user": map[string]any{},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = c.Decode(none)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestSignedCodec_IncompleteClaims(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"token": "x"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = NewSignedCodec("s3cret").Decode(tok)
	require.ErrorIs(t, err, ErrIncomplete)
}

func TestValidator_WithSignedCodec(t *testing.T) {
	c := NewSignedCodec("s3cret")
	v := NewValidator(c, WithClock(fixedClock))

	value, err := c.Encode(testSession())
	require.NoError(t, err)
	require.True(t, v.Validate(value, true).Valid())

	expired := testSession()
	expired.ExpiresAt = testNow.Add(-time.Second).UnixMilli()
	value, err = c.Encode(expired)
	require.NoError(t, err)
	require.ErrorIs(t, v.Validate(value, true).Err(), ErrExpired)
}
