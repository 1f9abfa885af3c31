package embedding

import (
	"context"
	"errors"
)

// ErrUnavailable marks provider failures (network, timeout, quota) that the
// matcher recovers from by scoring without the similarity component.
var ErrUnavailable = errors.New("embedding provider unavailable")

// Provider turns text into a fixed-length vector. Implementations are
// expected to return vectors of one dimensionality for the lifetime of a
// process; a dimensionality change between calls is a configuration error.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
