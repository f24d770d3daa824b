package session

import "time"

// Result is the outcome of validating a raw session value. A zero Result
// is invalid.
type Result struct {
	session *Session
	err     error
}

func (r Result) Valid() bool {
	return r.err == nil && r.session != nil
}

func (r Result) Session() (*Session, bool) {
	return r.session, r.Valid()
}

// Err is nil for a valid result and wraps ErrInvalid otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	if r.err == nil {
		return ErrMissing
	}
	return r.err
}

func invalid(err error) Result { return Result{err: err} }

type Validator struct {
	codec Codec
	now   func() time.Time
}

type ValidatorOption func(*Validator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.now = now
	}
}

func NewValidator(codec Codec, opts ...ValidatorOption) *Validator {
	if codec == nil {
		codec = PlainCodec{}
	}
	v := &Validator{
		codec: codec,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks a raw cookie value. present is false when the cookie
// was not sent at all. Every failure, including a panicking codec, ends
// up as an invalid Result.
func (v *Validator) Validate(raw string, present bool) (res Result) {
	if !present {
		return invalid(ErrMissing)
	}

	defer func() {
		if rec := recover(); rec != nil {
			res = invalid(ErrMalformed)
		}
	}()

	s, err := v.codec.Decode(raw)
	if err != nil {
		return invalid(err)
	}
	if s.Expired(v.now()) {
		return invalid(ErrExpired)
	}
	return Result{session: s}
}
