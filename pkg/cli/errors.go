package cli

import "errors"

var (
	errUnknownCommand      = errors.New("unknown command")
	errServiceNameRequired = errors.New("-name is required")
	errServiceSizeRequired = errors.New("-size is required")
	errInvalidServiceSize  = errors.New("-size is not a valid size (e.g. 10GiB)")
	errNoServiceSelected   = errors.New("no service selected")
	errAPIKeyRequired      = errors.New("an API key is required; set -api-key or CORALSTOR_API_KEY")
)
