package sources

import (
	"errors"
	"fmt"
)

var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrUpstream         = errors.New("upstream error")
	ErrNoService        = errors.New("no service")
)

func MissingParameter(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingParameter, name)
}

func InvalidParameter(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

func UpstreamError(provider string, err error) error {
	return fmt.Errorf("%w from %s: %w", ErrUpstream, provider, err)
}

// IsParameterError reports whether err was caused by the caller rather than by
// an upstream API.
func IsParameterError(err error) bool {
	return errors.Is(err, ErrMissingParameter) || errors.Is(err, ErrInvalidParameter)
}
