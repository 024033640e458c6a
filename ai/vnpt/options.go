package vnpt

import (
	"time"

	"github.com/poiesic/answerit/remote"
)

const (
	defaultMaxAttempts = 3
	defaultTimeout     = 30 * time.Second
)

type settings struct {
	maxAttempts int
	timeout     time.Duration
	caller      *remote.Caller
}

// Option adjusts how a vnpt service talks to the gateway.
type Option func(*settings)

// WithMaxAttempts sets how many times a request is attempted before the
// caller gives up.
func WithMaxAttempts(n int) Option {
	return func(s *settings) {
		s.maxAttempts = n
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// WithCaller substitutes the retry caller, mainly to shorten backoff
// delays in tests.
func WithCaller(c *remote.Caller) Option {
	return func(s *settings) {
		s.caller = c
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		maxAttempts: defaultMaxAttempts,
		timeout:     defaultTimeout,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.caller == nil {
		s.caller = remote.NewCaller()
	}
	return s
}
