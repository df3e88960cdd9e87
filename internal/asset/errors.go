package asset

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrRemoteContent indicates content was requested for a remote reference,
	// which is never fetched.
	ErrRemoteContent = errors.New("remote assets have no local content")

	// ErrContentUnavailable indicates the asset file could not be read.
	ErrContentUnavailable = errors.New("asset content unavailable")
)
