package llm

import (
	"errors"
	"net/http"
	"strings"
)

// FailureKind categorizes a generation failure.
type FailureKind int

const (
	// FailureOther covers network errors, timeouts, auth errors and anything unrecognized.
	FailureOther FailureKind = iota
	// FailureQuota means the provider rejected the call for rate limit or quota exhaustion.
	FailureQuota
)

func (k FailureKind) String() string {
	if k == FailureQuota {
		return "quota"
	}
	return "other"
}

// StatusCoder is implemented by provider errors that carry an HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// Classify maps an error to its FailureKind. A 429 status, or error text mentioning "429" or
// "quota", is a quota failure.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureOther
	}
	var sc StatusCoder
	if errors.As(err, &sc) && sc.HTTPStatus() == http.StatusTooManyRequests {
		return FailureQuota
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "quota") {
		return FailureQuota
	}
	return FailureOther
}
