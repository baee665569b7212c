package mpgs

import "fmt"

// Kind classifies a gateway failure. Classification happens once, in the
// client; callers switch on it instead of probing error strings.
type Kind int

const (
    // KindUnreachable means the host could not be reached at all.
    KindUnreachable Kind = iota
    // KindTimeout means the request exceeded the client deadline.
    KindTimeout
    // KindRejected means the gateway answered with a non-2xx status.
    KindRejected
    // KindInvalid means the gateway answered 2xx with a body that is not
    // usable JSON (empty, markup, or malformed).
    KindInvalid
)

func (k Kind) String() string {
    switch k {
    case KindUnreachable:
        return "unreachable"
    case KindTimeout:
        return "timeout"
    case KindRejected:
        return "rejected"
    case KindInvalid:
        return "invalid-response"
    }
    return "unknown"
}

// GatewayError is the single error type returned by Client operations.
// Body carries the raw response verbatim for diagnostics when present.
type GatewayError struct {
    Kind       Kind
    Op         string
    HTTPStatus int
    Body       string
    Err        error
}

func (e *GatewayError) Error() string {
    switch e.Kind {
    case KindRejected:
        return fmt.Sprintf("%s: gateway rejected with HTTP %d: %s", e.Op, e.HTTPStatus, e.Body)
    case KindInvalid:
        return fmt.Sprintf("%s: invalid gateway response: %v", e.Op, e.Err)
    default:
        return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
    }
}

func (e *GatewayError) Unwrap() error {
    return e.Err
}

// Retryable reports whether re-invoking the same step may succeed. Only
// transport-level failures qualify; the client itself never retries.
func (e *GatewayError) Retryable() bool {
    return e.Kind == KindUnreachable || e.Kind == KindTimeout
}
