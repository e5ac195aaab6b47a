package detection

import (
	"errors"
	"fmt"
)

// ErrUnsupportedScheme is returned for image locators that are neither
// data: nor http(s) URLs.
var ErrUnsupportedScheme = errors.New("unsupported image URL scheme")

// ErrEmptyPrediction is returned when the service answers 2xx with no body.
var ErrEmptyPrediction = errors.New("empty prediction response")

// StatusError reports a non-2xx answer from a remote service. Its text is
// shown to the chat user verbatim.
type StatusError struct {
	Service    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error: %d", e.Service, e.StatusCode)
}

const (
	serviceFetch   = "image fetch"
	servicePredict = "Prediction API"
)
