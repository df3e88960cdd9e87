package imaging

import "errors"

// Sentinel errors for variant generation.
var (
	// ErrRemoteSource indicates a variant was requested for a remote image.
	ErrRemoteSource = errors.New("remote images cannot be resized")

	// ErrInvalidSize indicates a negative or unusable target size.
	ErrInvalidSize = errors.New("invalid image size")

	// ErrUnsupportedFormat indicates the variant extension has no encoder.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
