package core

import "net/http"

// Outcome classifies the result of authenticating a request
type Outcome int

const (
	// OutcomeAdmitted means the signature (and gate, when configured) accepted the request
	OutcomeAdmitted Outcome = iota

	// OutcomeHandshake means a fresh challenge must be sent; this is not an error
	OutcomeHandshake

	// OutcomeMalformedInput covers undecodable headers
	OutcomeMalformedInput

	// OutcomeAuthenticationFailure means the signature did not verify
	OutcomeAuthenticationFailure

	// OutcomeAuthorizationDenied means the access gate refused the identity
	OutcomeAuthorizationDenied

	// OutcomeInternalFault covers anything unclassified; details are never exposed
	OutcomeInternalFault
)

// String returns the outcome name used in logs and events
func (o Outcome) String() string {
	switch o {
	case OutcomeAdmitted:
		return "admitted"
	case OutcomeHandshake:
		return "handshake"
	case OutcomeMalformedInput:
		return "malformed_input"
	case OutcomeAuthenticationFailure:
		return "authentication_failure"
	case OutcomeAuthorizationDenied:
		return "authorization_denied"
	case OutcomeInternalFault:
		return "internal_fault"
	default:
		return "unknown"
	}
}

// StatusCode maps the outcome to its HTTP status
func (o Outcome) StatusCode() int {
	switch o {
	case OutcomeAdmitted:
		return http.StatusOK
	case OutcomeHandshake, OutcomeAuthorizationDenied:
		return http.StatusForbidden
	case OutcomeMalformedInput:
		return http.StatusBadRequest
	case OutcomeAuthenticationFailure:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
