package observe

import (
	"context"
	"errors"

	"github.com/katalvlaran/unlock/machine"
)

// Failure reasons used as a metric label.
const (
	ReasonUnreachable = "unreachable"
	ReasonSearchLimit = "search_limit"
	ReasonCanceled    = "canceled"
	ReasonInvalid     = "invalid"
)

// Reason classifies a search error into a small fixed label set.
func Reason(err error) string {
	switch {
	case errors.Is(err, machine.ErrUnreachable):
		return ReasonUnreachable
	case errors.Is(err, machine.ErrSearchLimit):
		return ReasonSearchLimit
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	default:
		return ReasonInvalid
	}
}
