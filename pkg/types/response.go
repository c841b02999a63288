package types

// SuccessEnvelope wraps every 2xx body written by the API.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// DataEnvelope is the decode side of SuccessEnvelope for a known payload type.
type DataEnvelope[T any] struct {
	Data T `json:"data"`
}

// APIError is the body of a non-2xx response. Details carries field errors
// for validation failures and stays empty for internal errors.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
