// Package auth implements the stateless credential primitives of the users
// service: password hashing, the signed activation capsule that carries a
// pending registration, and the access/refresh session token pair.
//
// Nothing here touches storage. Every decision is made from the presented
// token, the configured secrets and the clock.
package auth

import "time"

const (
	DefaultActivationTTL = 5 * time.Minute
	DefaultAccessTTL     = 15 * time.Minute
	DefaultRefreshTTL    = 7 * 24 * time.Hour
)

// Settings is the immutable key material and lifetimes shared by the codec
// and the issuer. It is built once at startup and passed by value.
type Settings struct {
	ActivationSecret string
	ActivationTTL    time.Duration
	AccessSecret     string
	AccessTTL        time.Duration
	RefreshSecret    string
	RefreshTTL       time.Duration
}

func (s Settings) withDefaults() Settings {
	if s.ActivationTTL <= 0 {
		s.ActivationTTL = DefaultActivationTTL
	}
	if s.AccessTTL <= 0 {
		s.AccessTTL = DefaultAccessTTL
	}
	if s.RefreshTTL <= 0 {
		s.RefreshTTL = DefaultRefreshTTL
	}
	return s
}

// Option tunes a codec or issuer.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, e.g. to simulate expiry in tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
