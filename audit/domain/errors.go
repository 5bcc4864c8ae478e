package domain

import "errors"

var (
	ErrMissingField      = errors.New("email and url are required")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrInvalidURL        = errors.New("invalid url")
	ErrMissingCredential = errors.New("missing provider credential")
	ErrUpstreamStatus    = errors.New("unexpected upstream status")
	ErrMalformedResponse = errors.New("malformed upstream response")
)
