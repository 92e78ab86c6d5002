package capture

import "errors"

// Errors returned by sources and decoders.
var (
	ErrUnknownFormat    = errors.New("capture: unknown format")
	ErrInvalidFile      = errors.New("capture: invalid audio file")
	ErrUnsupportedDepth = errors.New("capture: unsupported bit depth")
	ErrUnsupportedCodec = errors.New("capture: unsupported sample encoding")
	ErrInvalidTone      = errors.New("capture: invalid tone")
	ErrInvalidRate      = errors.New("capture: sample rate must be > 0")
)
