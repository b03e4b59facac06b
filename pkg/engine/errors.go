// ABOUTME: Error taxonomy for the playback engine
// ABOUTME: Sentinel errors surfaced by Session operations
package engine

import "errors"

var (
	// ErrDeviceUnavailable is returned by Open when the sink cannot be
	// opened or configured with the requested parameters.
	ErrDeviceUnavailable = errors.New("audio device unavailable")

	// ErrAllocationFailure is returned by Open when the soft buffer
	// cannot be sized or allocated.
	ErrAllocationFailure = errors.New("buffer allocation failed")

	// ErrClosed is returned by blocking operations that were unblocked
	// by session teardown.
	ErrClosed = errors.New("session closed")
)
