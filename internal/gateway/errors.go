package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"
)

// Error kinds callers are expected to branch on with errors.Is. Anything not
// wrapping one of these is a transient transport failure, safe to retry at
// the orchestration layer.
var (
	// ErrRateLimited means the API quota for the current credential is
	// exhausted and the bounded wait was not enough. Distinct from other HTTP
	// failures so callers can back off instead of treating it as absent data.
	ErrRateLimited = errors.New("rate limit exhausted")

	// ErrAuthRejected means the token was rejected (bad or expired).
	ErrAuthRejected = errors.New("authentication rejected")

	// ErrNotFound means the owner, repository or user does not exist or is
	// not visible to the current credential.
	ErrNotFound = errors.New("not found")
)

// classify maps a go-github error to one of the sentinel kinds, keeping the
// original message. Errors without a recognizable kind pass through unchanged.
func classify(resp *github.Response, err error) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}

	if resp == nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %v", ErrAuthRejected, err)
	case http.StatusNotFound, http.StatusGone:
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case http.StatusForbidden, http.StatusTooManyRequests:
		// A 403 is a rate limit only when the quota headers say so.
		if resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.Header.Get("Retry-After") != "" {
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}
	return err
}
