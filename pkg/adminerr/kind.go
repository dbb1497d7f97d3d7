package adminerr

import "net/http"

//go:generate go run github.com/dmarkham/enumer -type Kind -trimprefix Kind -transform snake -json -output kind.gen.go

// Kind classifies every failure the admin surfaces to a caller.
type Kind int

const (
	KindInternal Kind = iota
	KindModelNotFound
	KindNotFound
	KindInvalidPayload
	KindUnknownField
	KindInvalidID
	KindTokenInvalid
	KindTokenExpired
	KindForbidden
	KindInvalidCredentials
)

// StatusAuthenticationTimeout is returned for expired tokens so clients can
// tell expiry apart from a bad token without parsing the body.
const StatusAuthenticationTimeout = 419

// HTTPStatus returns the response status for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindModelNotFound, KindNotFound:
		return http.StatusNotFound
	case KindInvalidPayload, KindUnknownField, KindInvalidID:
		return http.StatusBadRequest
	case KindTokenInvalid, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindTokenExpired:
		return StatusAuthenticationTimeout
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
