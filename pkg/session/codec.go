package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Codec turns a Session into a cookie value and back. Decode checks
// structure only; expiry is the validator's business.
type Codec interface {
	Encode(*Session) (string, error)
	Decode(raw string) (*Session, error)
}

// wireSession mirrors Session with every field optional so that absent
// and null fields can be told apart from zero values.
type wireSession struct {
	Token     *string         `json:"token"`
	ExpiresAt *float64        `json:"expiresAt"`
	User      json.RawMessage `json:"user"`
}

func (w *wireSession) toSession() (*Session, error) {
	if w.Token == nil || *w.Token == "" {
		return nil, fmt.Errorf("%w: token", ErrIncomplete)
	}
	if w.ExpiresAt == nil || *w.ExpiresAt == 0 {
		return nil, fmt.Errorf("%w: expiresAt", ErrIncomplete)
	}
	if falsyJSON(w.User) {
		return nil, fmt.Errorf("%w: user", ErrIncomplete)
	}

	return &Session{
		Token:     *w.Token,
		ExpiresAt: clampMillis(*w.ExpiresAt),
		User:      append(json.RawMessage(nil), w.User...),
	}, nil
}

// clampMillis floors exp to whole milliseconds, saturating at the int64
// bounds so that far-future expiries stay in the future.
func clampMillis(exp float64) int64 {
	switch {
	case exp >= math.MaxInt64:
		return math.MaxInt64
	case exp <= math.MinInt64:
		return math.MinInt64
	}
	return int64(math.Floor(exp))
}

// decodeWire reads the three session keys with exact, case-sensitive names.
// encoding/json matches struct tags case-insensitively, so "TOKEN" would
// otherwise be accepted as "token".
func decodeWire(data []byte) (*wireSession, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: token", ErrIncomplete)
	}

	var w wireSession
	if v, ok := fields["token"]; ok && !falsyJSON(v) {
		var token string
		if err := json.Unmarshal(v, &token); err != nil {
			return nil, fmt.Errorf("%w: token, %v", ErrMalformed, err)
		}
		w.Token = &token
	}
	if v, ok := fields["expiresAt"]; ok && !falsyJSON(v) {
		var exp float64
		if err := json.Unmarshal(v, &exp); err != nil {
			return nil, fmt.Errorf("%w: expiresAt, %v", ErrMalformed, err)
		}
		w.ExpiresAt = &exp
	}
	w.User = fields["user"]
	return &w, nil
}

// falsyJSON treats the JSON values a browser would consider falsy as absent.
func falsyJSON(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	switch string(v) {
	case "", "null", "false", `""`:
		return true
	}
	if f, err := strconv.ParseFloat(string(v), 64); err == nil && f == 0 {
		return true
	}
	return false
}

// PlainCodec stores the session as percent-encoded JSON, the format the
// dashboard frontend writes. Nothing authenticates the claims.
type PlainCodec struct{}

func (PlainCodec) Encode(s *Session) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return ``, fmt.Errorf("session/codec: can't marshal session, %w", err)
	}
	return url.PathEscape(string(data)), nil
}

func (PlainCodec) Decode(raw string) (*Session, error) {
	if raw == "" {
		return nil, ErrMissing
	}
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}

	w, err := decodeWire([]byte(raw))
	if err != nil {
		return nil, err
	}
	return w.toSession()
}

type signedClaims struct {
	Token     *string         `json:"token"`
	ExpiresAt *float64        `json:"expiresAt"`
	User      json.RawMessage `json:"user"`
	jwt.RegisteredClaims
}

// SignedCodec carries the same three claims inside an HS256 JWS, so the
// server can tell its own sessions from forged ones.
type SignedCodec struct {
	secret []byte
}

func NewSignedCodec(secret string) *SignedCodec {
	return &SignedCodec{secret: []byte(secret)}
}

func (c *SignedCodec) Encode(s *Session) (string, error) {
	exp := float64(s.ExpiresAt)
	claims := signedClaims{
		Token:     &s.Token,
		ExpiresAt: &exp,
		User:      s.User,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return ``, fmt.Errorf("session/codec: can't sign session, %w", err)
	}
	return token, nil
}

func (c *SignedCodec) Decode(raw string) (*Session, error) {
	if raw == "" {
		return nil, ErrMissing
	}

	claims := new(signedClaims)
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return nil, fmt.Errorf("%w: %v", ErrSignature, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	w := wireSession{Token: claims.Token, ExpiresAt: claims.ExpiresAt, User: claims.User}
	return w.toSession()
}
