package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPass_RoundTrip(t *testing.T) {
	salt := RandStringRunes(SaltLen)
	hashed := HashPass("secret", salt)

	require.True(t, CheckPass("secret", hashed))
	require.False(t, CheckPass("Secret", hashed))
	require.False(t, CheckPass("secret", hashed[:SaltLen]))
}

func TestRandStringRunes_Length(t *testing.T) {
	require.Len(t, RandStringRunes(32), 32)
	require.NotEqual(t, RandStringRunes(16), RandStringRunes(16))
}

func TestWriteMsg(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteMsg(rr, "nope", http.StatusTeapot)

	require.Equal(t, http.StatusTeapot, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "nope", body["message"])
}

func TestParseReqBody_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		Login string `json:"login"`
	}
	require.NoError(t, ParseReqBody(strings.NewReader(`{"login":"a"}`), &dst))
	require.Equal(t, "a", dst.Login)

	require.Error(t, ParseReqBody(strings.NewReader(`{"login":"a","x":1}`), &dst))
	require.Error(t, ParseReqBody(strings.NewReader(`{`), &dst))
}
