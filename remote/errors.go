// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package remote

import (
	"errors"
	"fmt"
)

// Kind classifies a failed remote call.
type Kind int

const (
	// KindTransport covers timeouts, connection failures and 5xx responses.
	// Transport failures are retried with backoff.
	KindTransport Kind = iota + 1

	// KindRateLimited is a 429 response. Retried with backoff; retries
	// count against the same attempt budget as transport failures.
	KindRateLimited

	// KindAuth is a 401 or 403 response. Never retried; the run should
	// stop rather than burn quota against a broken credential.
	KindAuth

	// KindValidation is any other 4xx response: the request itself is
	// malformed and retrying cannot help.
	KindValidation

	// KindExhausted means the attempt budget ran out without success.
	KindExhausted
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindRateLimited:
		return "rate-limited"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// CallError is the typed failure of a remote call.
type CallError struct {
	Kind   Kind
	Status int   // last HTTP status observed, 0 for pure transport failures
	Err    error // underlying cause, may be nil
}

// Error implements the error interface.
func (e *CallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote call failed (%s, status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("remote call failed (%s, status %d)", e.Kind, e.Status)
}

// Unwrap returns the underlying cause.
func (e *CallError) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error chain.
// Returns 0 if the error is not a *CallError.
func KindOf(err error) Kind {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Kind
	}
	return 0
}

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrNoCredentials is returned when a key file contains no entry
	// matching the requested service name.
	ErrNoCredentials = errors.New("no matching credentials in key file")
)
