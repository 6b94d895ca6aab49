package subgraph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDataUnavailable is matched by every failure that leaves the caller
// without a data payload.
var ErrDataUnavailable = errors.New("data unavailable")

// GraphQLError is one entry of an upstream `errors` array.
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// UpstreamError describes why a response carried no data.
type UpstreamError struct {
	StatusCode int
	Errors     []GraphQLError
	Cause      error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString(ErrDataUnavailable.Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (http %d)", e.StatusCode)
	}
	if len(e.Errors) > 0 {
		msgs := make([]string, 0, len(e.Errors))
		for _, gqlErr := range e.Errors {
			msgs = append(msgs, gqlErr.Message)
		}
		b.WriteString(": ")
		b.WriteString(strings.Join(msgs, "; "))
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrDataUnavailable
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
